package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/sirupsen/logrus"
)

type YamlConf struct {
	Chain      string     `yaml:"chain"`
	DB         DB         `yaml:"db"`
	ShareRPC   ShareRPC   `yaml:"share_rpc"`
	Log        Log        `yaml:"log"`
	BasicIndex BasicIndex `yaml:"basic_index"`
	RPCService RPCService `yaml:"rpc_service"`
}

type DB struct {
	Path string `yaml:"path"`
}

type ShareRPC struct {
	Bitcoin Bitcoin `yaml:"bitcoin"`
}

type Bitcoin struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type Log struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type BasicIndex struct {
	EnableSatIndex bool `yaml:"enable_sat_index"`
	SyncIntervalMs int  `yaml:"sync_interval_ms"`
}

type RPCService struct {
	Addr      string   `yaml:"addr"` // bind address, without port
	HTTP      Listener `yaml:"http"`
	HTTPS     Listener `yaml:"https"`
	ACME      ACME     `yaml:"acme"`
	Proxy     string   `yaml:"proxy"`
	LogPath   string   `yaml:"log_path"`
	RateLimit int      `yaml:"rate_limit"` // requests per second per client, 0 disables
}

type Listener struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type ACME struct {
	Domains  []string `yaml:"domains"`
	Contacts []string `yaml:"contacts"`
	CacheDir string   `yaml:"cache_dir"`
}

func GetBaseDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return "./."
	}
	return filepath.Dir(execPath)
}

func InitConfig(configFile string) *YamlConf {
	if configFile == "" {
		for i, item := range os.Args {
			if item == "-env" {
				if i+1 < len(os.Args) {
					configFile = os.Args[i+1]
					break
				}
			}
		}
		if configFile == "" {
			configFile = "./.env"
		}
	}
	if !strings.HasPrefix(configFile, "/") {
		configFile = filepath.Join(GetBaseDir(), configFile)
	}

	fmt.Printf("config file: %s\n", configFile)

	cfg, err := LoadYamlConf(configFile)
	if err != nil {
		return nil
	}
	return cfg
}

func LoadYamlConf(cfgPath string) (*YamlConf, error) {
	confFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cfg: %s, error: %s", cfgPath, err)
	}
	defer confFile.Close()

	ret := &YamlConf{}
	decoder := yaml.NewDecoder(confFile)
	err = decoder.Decode(ret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cfg: %s, error: %s", cfgPath, err)
	}

	ApplyDefaults(ret)
	return ret, nil
}

func ApplyDefaults(ret *YamlConf) {
	if ret.Chain == "" {
		ret.Chain = "mainnet"
	}

	_, err := logrus.ParseLevel(ret.Log.Level)
	if err != nil {
		ret.Log.Level = "info"
	}

	if ret.Log.Path == "" {
		ret.Log.Path = "log"
	}
	ret.Log.Path = filepath.FromSlash(ret.Log.Path)

	if ret.DB.Path == "" {
		ret.DB.Path = "db"
	}
	ret.DB.Path = filepath.FromSlash(ret.DB.Path)

	if ret.BasicIndex.SyncIntervalMs <= 0 {
		ret.BasicIndex.SyncIntervalMs = 100
	}

	rpcService := &ret.RPCService
	if rpcService.Addr == "" {
		rpcService.Addr = "0.0.0.0"
	}

	if rpcService.Proxy == "" {
		rpcService.Proxy = "/"
	}
	if rpcService.Proxy[0] != '/' {
		rpcService.Proxy = "/" + rpcService.Proxy
	}
	if rpcService.Proxy == "/" {
		rpcService.Proxy = ""
	}

	if rpcService.LogPath == "" {
		rpcService.LogPath = "log"
	}
}
