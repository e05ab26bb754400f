package ordinals

import (
	"github.com/gin-gonic/gin"

	"github.com/ordview-labs/ordview/share/base_indexer"
)

type Service struct {
	model *Model
}

func NewService(i base_indexer.Indexer) *Service {
	return &Service{
		model: NewModel(i),
	}
}

func (s *Service) InitRouter(r *gin.Engine, basePath string) {
	r.GET(basePath+"/", s.getHome)
	r.GET(basePath+"/status", s.getStatus)
	r.GET(basePath+"/block-count", s.getBlockCount)
	r.GET(basePath+"/block/:query", s.getBlock)
	r.GET(basePath+"/tx/:txid", s.getTransaction)
	r.GET(basePath+"/output/:outpoint", s.getOutput)
	r.GET(basePath+"/sat/:sat", s.getSat)
	r.GET(basePath+"/range/:start/:end", s.getRange)
	r.GET(basePath+"/input/:height/:tx/:input", s.getInput)
	r.GET(basePath+"/inscription/:id", s.getInscription)
	r.GET(basePath+"/inscriptions", s.getInscriptions)
	r.GET(basePath+"/content/:id", s.getContent)
	r.GET(basePath+"/rare.txt", s.getRareTxt)
	r.GET(basePath+"/search", s.searchByQuery)
	r.GET(basePath+"/search/:query", s.searchByPath)
	r.GET(basePath+"/clock", s.getClock)
	r.GET(basePath+"/static/*path", s.getStaticAsset)
	r.GET(basePath+"/favicon.ico", s.getFavicon)

	// legacy and documentation aliases
	r.GET(basePath+"/ordinal/:sat", s.redirectOrdinal)
	r.GET(basePath+"/faq", redirectTo("https://docs.ordinals.com/faq/"))
	r.GET(basePath+"/bounties", redirectTo("https://docs.ordinals.com/bounty/"))
	r.GET(basePath+"/install.sh", redirectTo("https://raw.githubusercontent.com/casey/ord/master/install.sh"))
}
