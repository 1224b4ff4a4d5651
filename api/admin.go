package api

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vultisig/feedback-portal/internal/types"
	"github.com/vultisig/feedback-portal/service"
)

type adminPageData struct {
	Count    int
	HasCount bool
	List     template.HTML
}

// AdminPage runs the review viewer once per load; the refresh button simply
// reloads the page.
func (s *Server) AdminPage(c echo.Context) error {
	list := &service.ReviewListState{}
	viewer, err := service.NewReviewViewer(s.backend, list, s.logger, service.ViewerOptions{
		Page:    types.ReviewPage{Limit: s.cfg.Viewer.PageSize},
		Render:  s.render,
		Metrics: s.sdClient,
	})
	if err != nil {
		return s.internalError(c, err)
	}

	viewer.Refresh(c.Request().Context())

	return c.Render(http.StatusOK, "admin.html", adminPageData{
		Count:    list.Count,
		HasCount: list.HasCount,
		// node serialisation escapes user text itself
		List: template.HTML(list.HTML()),
	})
}
