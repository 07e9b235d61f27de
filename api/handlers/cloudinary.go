package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// CloudinaryHandler signs direct client-side uploads so the browser can push
// supporting documents straight to the storage provider
type CloudinaryHandler struct {
	UploadPreset string
	APISecret    string
}

// SignatureResponse carries the signed upload parameters back to the client
type SignatureResponse struct {
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
}

// GenerateSignature signs the current timestamp and the configured upload
// preset. The signature is only valid for the parameters it covers.
func (c CloudinaryHandler) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(SignatureResponse{
		Timestamp: timestamp,
		Signature: c.sign("timestamp=" + timestamp + "&upload_preset=" + c.UploadPreset),
	})
}

func (c CloudinaryHandler) sign(params string) string {
	h := hmac.New(sha1.New, []byte(c.APISecret))
	h.Write([]byte(params))
	return hex.EncodeToString(h.Sum(nil))
}
