package ordinals

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ordview-labs/ordview/common"
	"github.com/ordview-labs/ordview/static"
)

const contentSecurityPolicy = "default-src 'none' 'unsafe-eval' 'unsafe-inline'"

func (s *Service) getHome(c *gin.Context) {
	resp, serr := s.model.getHome()
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getStatus reports index health. A detected reorg is still a 200: the
// service keeps serving, the operator is expected to rebuild.
func (s *Service) getStatus(c *gin.Context) {
	if s.model.indexer.IsReorgDetected() {
		c.String(http.StatusOK, "reorg detected, please rebuild the database.")
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Service) getBlockCount(c *gin.Context) {
	c.String(http.StatusOK, strconv.FormatInt(s.model.indexer.GetBlockCount(), 10))
}

func (s *Service) getBlock(c *gin.Context) {
	query, err := common.ParseBlockQuery(c.Param("query"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	resp, serr := s.model.getBlock(query)
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) getTransaction(c *gin.Context) {
	txid, err := common.ParseTxid(c.Param("txid"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	resp, serr := s.model.getTransaction(txid)
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) getOutput(c *gin.Context) {
	outpoint, err := common.ParseOutPoint(c.Param("outpoint"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	resp, serr := s.model.getOutput(outpoint)
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) getSat(c *gin.Context) {
	sat, err := common.ParseSat(c.Param("sat"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	resp, serr := s.model.getSat(sat)
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) getRange(c *gin.Context) {
	start, err := common.ParseSat(c.Param("start"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	end, err := common.ParseSat(c.Param("end"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	switch {
	case start == end:
		abortWithError(c, errBadRequest("empty range"))
	case start > end:
		abortWithError(c, errBadRequest("range start greater than range end"))
	default:
		c.JSON(http.StatusOK, &RangeResp{
			Start: s.model.satResp(start),
			End:   s.model.satResp(end),
			Size:  int64(end - start),
		})
	}
}

func (s *Service) getInput(c *gin.Context) {
	height, err := common.ParseHeight(c.Param("height"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	txIndex, err := strconv.Atoi(c.Param("tx"))
	if err != nil || txIndex < 0 {
		abortWithError(c, errBadRequest("invalid transaction index %s", c.Param("tx")))
		return
	}
	inputIndex, err := strconv.Atoi(c.Param("input"))
	if err != nil || inputIndex < 0 {
		abortWithError(c, errBadRequest("invalid input index %s", c.Param("input")))
		return
	}
	resp, serr := s.model.getInput(int64(height), txIndex, inputIndex)
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) getInscription(c *gin.Context) {
	id, err := common.ParseInscriptionId(c.Param("id"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	resp, serr := s.model.getInscription(id.String())
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) getInscriptions(c *gin.Context) {
	resp, serr := s.model.getLatestInscriptions()
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getContent serves inscription payloads verbatim under a strict CSP so
// arbitrary user content cannot reach back into the service's origin.
func (s *Service) getContent(c *gin.Context) {
	id, err := common.ParseInscriptionId(c.Param("id"))
	if err != nil {
		abortWithError(c, errBadRequest("%s", err.Error()))
		return
	}
	inscription, serr := s.model.getContent(id.String())
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	contentType := inscription.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Security-Policy", contentSecurityPolicy)
	c.Data(http.StatusOK, contentType, inscription.Content)
}

func (s *Service) getRareTxt(c *gin.Context) {
	if !s.model.indexer.HasSatIndex() {
		abortWithError(c, errNotFound("tracking rare sats requires index created with `--index-sats` flag"))
		return
	}
	listing, serr := s.model.rareSats()
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.String(http.StatusOK, listing)
}

func (s *Service) searchByQuery(c *gin.Context) {
	s.search(c, c.Query("query"))
}

func (s *Service) searchByPath(c *gin.Context) {
	s.search(c, c.Param("query"))
}

func (s *Service) search(c *gin.Context, query string) {
	target, serr := s.model.searchTarget(query)
	if serr != nil {
		abortWithError(c, serr)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// getClock renders a minimal SVG block-height clock.
func (s *Service) getClock(c *gin.Context) {
	height := s.model.indexer.GetSyncHeight()
	if height < 0 {
		abortWithError(c, errInternal(nil, "index has not indexed genesis block"))
		return
	}
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256">`+
			`<circle cx="128" cy="128" r="120" fill="none" stroke="#98a3ad" stroke-width="4"/>`+
			`<text x="128" y="140" text-anchor="middle" font-family="monospace" font-size="28" fill="#98a3ad">%d</text>`+
			`</svg>`,
		height,
	)
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

func (s *Service) getStaticAsset(c *gin.Context) {
	s.serveStatic(c, c.Param("path"))
}

func (s *Service) getFavicon(c *gin.Context) {
	s.serveStatic(c, "/favicon.png")
}

func (s *Service) serveStatic(c *gin.Context, path string) {
	name := path
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	data, contentType := static.Get(name)
	if data == nil {
		abortWithError(c, errNotFound("asset %s unknown", path))
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

func (s *Service) redirectOrdinal(c *gin.Context) {
	c.Redirect(http.StatusFound, "/sat/"+c.Param("sat"))
}

func redirectTo(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, target)
	}
}
