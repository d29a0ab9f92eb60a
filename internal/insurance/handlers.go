package insurance

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"rental/internal/api"
)

type Handlers struct {
	Plans Source
	Log   *logrus.Entry
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Plans.List(r.Context())
	if err != nil {
		if h.Log != nil {
			h.Log.WithError(err).Error("list insurance plans")
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if cat == nil {
		cat = Catalog{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": cat})
}
