package api

import (
	"fmt"
	"net/http"

	"github.com/compspread/comps-backend/internal/comps"
	"github.com/compspread/comps-backend/internal/models"
	"github.com/compspread/comps-backend/internal/xlsx"
)

const exportFilename = "comps.xlsx"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport builds the header/body/median projection of the posted
// dataset and streams it back as a spreadsheet download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	store := comps.NewStore()
	store.SetDataset(req.Data)

	raw, err := xlsx.Write(store.BuildExportGrid())
	if err != nil {
		fmt.Printf("[API] Export failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(raw)))
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
