package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgallion1/groupdata/internal/catalog"
	"github.com/dgallion1/groupdata/internal/pipeline"
	"github.com/dgallion1/groupdata/internal/source"
)

type generateRequest struct {
	APIName      string   `json:"api_name"`
	CallbackMode string   `json:"callback_mode"`
	IDL          []string `json:"idl"`
	URLs         []string `json:"urls"`
}

type diagnosticJSON struct {
	Source string `json:"source,omitempty"`
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Line   int    `json:"line,omitempty"`
	Reason string `json:"reason"`
}

type failureJSON struct {
	Source string `json:"source"`
	Stage  string `json:"stage"`
	Error  string `json:"error"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxInput)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxInput), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.IDL) == 0 && len(req.URLs) == 0 {
		jsonError(w, "at least one idl string or url is required", http.StatusBadRequest)
		return
	}
	// Only remote sources are accepted; local paths would expose the server's disk.
	for _, u := range req.URLs {
		if !source.IsRemote(u) {
			jsonError(w, fmt.Sprintf("url must use http or https: %q", u), http.StatusBadRequest)
			return
		}
	}

	mode := req.CallbackMode
	if mode == "" {
		mode = s.cfg.CallbackMode
	}
	policy, err := catalog.ParseCallbackPolicy(mode)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := req.APIName
	if name == "" {
		name = s.cfg.APIName
	}

	preq := pipeline.Request{
		APIName: name,
		Policy:  policy,
		Sources: req.URLs,
	}
	for i, idl := range req.IDL {
		preq.Inline = append(preq.Inline, pipeline.Inline{Name: fmt.Sprintf("idl[%d]", i), IDL: idl})
	}

	res := s.generator.Generate(r.Context(), preq)
	if st := statsFrom(r.Context()); st != nil {
		st.callbackMode = policy.String()
		st.sources = len(preq.Sources) + len(preq.Inline)
		st.failures = len(res.Failures)
		st.diagnostics = len(res.Diagnostics)
	}

	if !wantsJSON(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(res.Output))
		return
	}

	diags := make([]diagnosticJSON, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diags = append(diags, diagnosticJSON{
			Source: d.Source,
			Kind:   string(d.Kind),
			Name:   d.Name,
			Line:   d.Line,
			Reason: string(d.Reason),
		})
	}
	failures := make([]failureJSON, 0, len(res.Failures))
	for _, f := range res.Failures {
		failures = append(failures, failureJSON{Source: f.Source, Stage: f.Stage, Error: f.Err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"api_name":      name,
		"callback_mode": policy.String(),
		"output":        res.Output,
		"interfaces":    res.Buckets.Interfaces.Names(),
		"dictionaries":  res.Buckets.Dictionaries.Names(),
		"types":         res.Buckets.Types.Names(),
		"callbacks":     res.Buckets.Callbacks.Names(),
		"diagnostics":   diags,
		"failures":      failures,
	})
}

// wantsJSON reports whether the caller asked for the structured response,
// either with ?format=json or an Accept header.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
