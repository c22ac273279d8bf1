package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20 // 1MB
)

// TokenSource entrega el bearer token actual y sabe renovarlo.
// La sesión lo implementa; el client no conoce de dónde salen los tokens.
type TokenSource interface {
	// AccessToken devuelve el token vigente. "" => request sin Authorization.
	AccessToken(ctx context.Context) (string, error)
	// Refresh fuerza una renovación y devuelve el access token nuevo.
	Refresh(ctx context.Context) (string, error)
}

// Client envuelve *http.Client con helpers comunes para adapters.
//
// Si Tokens está seteado, cada request sale con "Authorization: Bearer <token>"
// y una respuesta 401 dispara UNA renovación transparente + reintento.
// Nunca más de un reintento por request original.
type Client struct {
	HTTP    *http.Client
	BaseURL string // opcional; si se define, los paths pueden ser relativos
	Tokens  TokenSource
}

// New crea un Client con timeout razonable.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// DoJSON hace un request JSON.
// - method: GET/POST/etc
// - pathOrURL: URL absoluta o path relativo si BaseURL está seteado
// - headers: headers extra (opcional)
// - in: body a enviar (opcional). Si nil => no body.
// - out: donde decodificar JSON (opcional). Si nil => ignora body.
// Retorna error si status no es 2xx.
func (c *Client) DoJSON(
	ctx context.Context,
	method string,
	pathOrURL string,
	headers map[string]string,
	in any,
	out any,
) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		payload = b
	}
	return c.do(ctx, method, pathOrURL, "application/json", headers, payload, in != nil, out)
}

// DoForm hace un request multipart/form-data (p.ej. subida de imagen de perfil).
// fields son los campos de texto; fileField/fileName/file el adjunto (opcional).
func (c *Client) DoForm(
	ctx context.Context,
	method string,
	pathOrURL string,
	fields map[string]string,
	fileField, fileName string,
	file io.Reader,
	out any,
) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("httpclient: write form field: %w", err)
		}
	}
	if file != nil && strings.TrimSpace(fileField) != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			return fmt.Errorf("httpclient: create form file: %w", err)
		}
		if _, err := io.Copy(fw, file); err != nil {
			return fmt.Errorf("httpclient: copy form file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("httpclient: close form: %w", err)
	}

	return c.do(ctx, method, pathOrURL, mw.FormDataContentType(), nil, buf.Bytes(), true, out)
}

// do arma el request, adjunta auth y aplica la política de un solo
// refresh+reintento ante 401. El body viene en bytes para poder reponerlo
// en el reintento.
func (c *Client) do(
	ctx context.Context,
	method string,
	pathOrURL string,
	contentType string,
	headers map[string]string,
	payload []byte,
	hasBody bool,
	out any,
) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return err
	}

	// El reintento comparte el mismo request id: es el mismo request lógico.
	requestID := uuid.NewString()

	var token string
	if c.Tokens != nil {
		token, err = c.Tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("httpclient: token source: %w", err)
		}
	}

	status, raw, err := c.send(ctx, method, fullURL, contentType, headers, payload, hasBody, requestID, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.Tokens != nil {
		// Un solo refresh por request original. Si el refresh falla,
		// devolvemos el 401 original: decidir el teardown es de la sesión.
		fresh, rerr := c.Tokens.Refresh(ctx)
		if rerr != nil {
			return &HTTPError{StatusCode: status, Body: strings.TrimSpace(string(raw))}
		}
		status, raw, err = c.send(ctx, method, fullURL, contentType, headers, payload, hasBody, requestID, fresh)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return &HTTPError{
			StatusCode: status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) send(
	ctx context.Context,
	method, fullURL, contentType string,
	headers map[string]string,
	payload []byte,
	hasBody bool,
	requestID, token string,
) (int, []byte, error) {
	var body io.Reader
	if hasBody {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if hasBody && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := readAtMost(resp.Body, maxBodyBytes)
	return resp.StatusCode, raw, nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = maxBodyBytes
	}
	return io.ReadAll(io.LimitReader(r, max))
}
