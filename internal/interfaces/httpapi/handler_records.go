package httpapi

import "net/http"

func (h *Handler) ListPlayerRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerRecords")
	defer span.End()

	records, err := h.recordsService.Records(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, records)
}
