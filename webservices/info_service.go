package webservices

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/featuredal"
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/jamesrr39/ownmap-style/styling"
)

func NewInfoService(logger *logpkg.Logger, connSet *featuredal.ConnSet, registry *styling.Registry) *InfoService {
	ws := &InfoService{logger, connSet, registry, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type InfoService struct {
	logger   *logpkg.Logger
	connSet  *featuredal.ConnSet
	registry *styling.Registry
	chi.Router
}

type stylesType struct {
	DefaultStyleID string   `json:"defaultStyleId"`
	StyleIDs       []string `json:"styleIds"`
}

type infoType struct {
	Style    stylesType            `json:"style"`
	Datasets []*ownmap.DatasetInfo `json:"datasets"`
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	infos := []*ownmap.DatasetInfo{}

	for _, conn := range ws.connSet.GetConns() {
		info, err := conn.DatasetInfo()
		if err != nil {
			errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err, "dataset", conn.Name()), http.StatusInternalServerError)
			return
		}

		infos = append(infos, info)
	}

	// make deterministic
	sort.Slice(infos, func(a, b int) bool {
		if infos[a].Bounds.MinLon != infos[b].Bounds.MinLon {
			return infos[a].Bounds.MinLon < infos[b].Bounds.MinLon
		}

		return infos[a].Name < infos[b].Name
	})

	styleSet := ws.registry.StyleSet()
	style := stylesType{
		styleSet.GetDefaultStyleID(),
		styleSet.GetAllStyleIDs(),
	}

	render.JSON(w, r, infoType{style, infos})
}
