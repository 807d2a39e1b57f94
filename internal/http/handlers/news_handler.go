// News HTTP handler.
//
// Exposes GET /news/headlines, a keyed pass-through to the headlines
// upstream. The gateway contributes the API key and query normalization; the
// upstream JSON body is returned to the client unmodified.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-ai-gateway/internal/services"
)

// News godoc
// @ID          newsHeadlines
// @Summary     Fetch top headlines
// @Description Proxies the headlines upstream with the server-side news key. The category value "all" disables the topic filter.
// @Tags        News
// @Produce     json
//
// @Param       X-Api-Key  header  string  true   "Gateway shared secret"
// @Param       country    query   string  false  "Two-letter country code"       example(us)
// @Param       category   query   string  false  "Topic filter; 'all' for none"  example(sports)
// @Param       lang       query   string  false  "BCP-47 language tag"           example(en)
// @Param       max        query   int     false  "Number of articles"            minimum(1) maximum(100) default(10)
// @Param       q          query   string  false  "Keyword query"
//
// @Success     200  {object}  object  "Upstream headlines payload"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure"
// @Failure     503  {object}  handlers.ErrorResponse  "News key not configured"
// @Router      /news/headlines [get]
func (h *Handlers) News(c *gin.Context) {
	payload, err := h.newsSvc.Headlines(c.Request.Context(), services.HeadlinesParams{
		Country:  c.Query("country"),
		Category: c.Query("category"),
		Lang:     c.Query("lang"),
		Max:      c.Query("max"),
		Q:        c.Query("q"),
	})
	if err != nil {
		failService(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
