package footprint

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate    = validator.New()
	formDecoder = schema.NewDecoder()
)

func init() {
	formDecoder.IgnoreUnknownKeys(true)
	// Generated clients send the json names, not the Go field names.
	formDecoder.SetAliasTag("json")
}

// maxFormMemory bounds the in-memory part of multipart uploads.
const maxFormMemory = 32 << 20

// Endpoint adapts a typed function to an http.Handler the way the generated
// client expects: GET parameters arrive in the query string, POST parameters
// as form or multipart data, and the response is a JSON body.
type Endpoint[Req any, Res any] struct {
	fn     func(context.Context, Req) (Res, error)
	method string
}

// NewEndpoint wraps a typed function. The default HTTP method is GET,
// matching the generated client's get helper.
func NewEndpoint[Req any, Res any](fn func(context.Context, Req) (Res, error)) *Endpoint[Req, Res] {
	return &Endpoint[Req, Res]{fn: fn, method: http.MethodGet}
}

// Method sets the accepted HTTP method.
func (e *Endpoint[Req, Res]) Method(m string) *Endpoint[Req, Res] {
	e.method = m
	return e
}

// ServeHTTP implements http.Handler.
func (e *Endpoint[Req, Res]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != e.method {
		writeError(w, Errorf(CodeMethodNotAllowed, "method %s not allowed", r.Method))
		return
	}

	var req Req
	if err := e.decode(r, &req); err != nil {
		writeError(w, FromError(err))
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, FromError(err))
		return
	}

	res, err := e.fn(r.Context(), req)
	if err != nil {
		writeError(w, FromError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, res); err != nil {
		slog.Default().Error("failed to encode response", slog.Any("error", err))
	}
}

// decode populates req from the request parameters.
func (e *Endpoint[Req, Res]) decode(r *http.Request, req *Req) error {
	values, err := requestValues(r)
	if err != nil {
		return Errorf(CodeInvalidArgument, "failed to parse request: %v", err)
	}
	if err := formDecoder.Decode(req, values); err != nil {
		return Errorf(CodeInvalidArgument, "failed to decode request: %v", err)
	}
	return nil
}

// requestValues extracts the parameter map: the query string for GET,
// form or multipart data otherwise.
func requestValues(r *http.Request) (url.Values, error) {
	if r.Method == http.MethodGet {
		return r.URL.Query(), nil
	}

	ct := r.Header.Get("Content-Type")
	if ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxFormMemory); err != nil {
				return nil, err
			}
			return url.Values(r.MultipartForm.Value), nil
		}
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// FormFile returns an uploaded file by its parameter name. Endpoints whose
// generated signature includes a File argument read it from the multipart
// body with this helper.
func FormFile(r *http.Request, name string) (*multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, Errorf(CodeInvalidArgument, "failed to parse upload: %v", err)
		}
	}
	files := r.MultipartForm.File[name]
	if len(files) == 0 {
		return nil, Errorf(CodeInvalidArgument, "missing file %q", name)
	}
	return files[0], nil
}

func writeJSON(w http.ResponseWriter, v any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}
