package server

// Response codes kept byte-compatible with the deployed clients, misspelling
// included.
const (
	CodeSuccess       = "SUCCES"
	CodeFirebaseError = "FIREBASE_ERROR"
)

// Envelope builds the flat response object: payload fields are spread at the
// top level next to code and message, never nested.
func Envelope(code, message string, payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		out[k] = v
	}
	out["code"] = code
	out["message"] = message
	return out
}
