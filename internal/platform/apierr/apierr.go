package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"livestock-client/internal/platform/httpclient"
)

// Error normaliza cualquier fallo de la API en una sola forma que los
// stores pueden guardar y las vistas pueden renderizar.
//
// Taxonomía:
//   - Status == 0  => fallo de transporte (no hubo respuesta)
//   - Status 400   => validación (Fields trae los errores por campo)
//   - Status 401   => autorización rechazada
//   - Status 404   => entidad no encontrada
//   - Status >=500 => fallo genérico del backend
type Error struct {
	Status int
	Detail string
	// Fields trae errores de validación por campo, formato DRF:
	// {"tag_number": ["This field is required."]}
	Fields map[string][]string

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Status == 0 {
		return fmt.Sprintf("api: transport failure: %s", e.Detail)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api: status=%d validation failed: %s", e.Status, e.fieldSummary())
	}
	return fmt.Sprintf("api: status=%d %s", e.Status, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) IsTransport() bool  { return e != nil && e.Status == 0 }
func (e *Error) IsAuth() bool       { return e != nil && e.Status == http.StatusUnauthorized }
func (e *Error) IsNotFound() bool   { return e != nil && e.Status == http.StatusNotFound }
func (e *Error) IsValidation() bool { return e != nil && len(e.Fields) > 0 }
func (e *Error) IsServer() bool     { return e != nil && e.Status >= 500 }

func (e *Error) fieldSummary() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, f+": "+strings.Join(msgs, "; "))
	}
	return strings.Join(parts, ", ")
}

// Transport construye el error para fallos sin respuesta (DNS, timeout, etc).
func Transport(err error) *Error {
	detail := "request failed"
	if err != nil {
		detail = err.Error()
	}
	return &Error{Status: 0, Detail: detail, cause: err}
}

// Validation construye un error de validación generado en el cliente,
// con la misma forma que devolvería el backend (400 + errores por campo).
func Validation(fields map[string][]string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Detail: "validation failed",
		Fields: fields,
	}
}

// FromResponse interpreta el body de una respuesta no-2xx.
// Formatos aceptados (DRF): {"detail": "..."}, {"error": "..."},
// o un mapa campo -> lista de mensajes.
func FromResponse(status int, body string) *Error {
	e := &Error{Status: status}

	body = strings.TrimSpace(body)
	if body == "" {
		e.Detail = http.StatusText(status)
		return e
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		e.Detail = body
		return e
	}

	for key, raw := range payload {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if key == "detail" || key == "error" || key == "message" {
				e.Detail = s
				continue
			}
			// string suelto en otro campo: lo tratamos como error de campo
			if e.Fields == nil {
				e.Fields = map[string][]string{}
			}
			e.Fields[key] = append(e.Fields[key], s)
			continue
		}

		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			if e.Fields == nil {
				e.Fields = map[string][]string{}
			}
			e.Fields[key] = append(e.Fields[key], list...)
		}
	}

	if e.Detail == "" {
		if len(e.Fields) > 0 {
			e.Detail = "validation failed"
		} else {
			e.Detail = http.StatusText(status)
		}
	}
	return e
}

// From convierte cualquier error del camino HTTP en *Error.
// Si ya es *Error lo devuelve tal cual.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		return FromResponse(he.StatusCode, he.Body)
	}

	return Transport(err)
}
