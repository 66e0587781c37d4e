package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"
	"github.com/xelth-com/matchforgego/internal/matching"
)

// getBarcodeQR renders a barcode as a QR PNG for shelf labels. The code is
// normalized the same way the index normalizes it so the label always names
// the token the engine matches on.
func (r *Router) getBarcodeQR(w http.ResponseWriter, req *http.Request) {
	code := matching.CanonicalToken(mux.Vars(req)["code"])
	if code == "" {
		respondError(w, http.StatusBadRequest, "barcode is required")
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode QR")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
