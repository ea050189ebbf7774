package generate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/interfaces"
)

type mockHTTPClient struct {
	postFunc func(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return nil, errors.New("unexpected GET")
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
	return m.postFunc(ctx, url, body, headers)
}

type mockResponse struct {
	statusCode int
	body       string
}

func (m *mockResponse) StatusCode() int          { return m.statusCode }
func (m *mockResponse) Body() io.ReadCloser      { return io.NopCloser(strings.NewReader(m.body)) }
func (m *mockResponse) Header(key string) string { return "" }

func completion(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []interface{}{map[string]interface{}{"message": map[string]string{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func TestGenerate_Success(t *testing.T) {
	var gotURL, gotAuth string
	var gotReq chatRequest
	http := &mockHTTPClient{postFunc: func(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
		gotURL = url
		gotAuth = headers["Authorization"]
		require.NoError(t, json.NewDecoder(body).Decode(&gotReq))
		return &mockResponse{statusCode: 200, body: completion("```html\n<html><body>hi</body></html>\n```")}, nil
	}}
	c := NewClient(Config{BaseURL: "https://ai.test/v1/", APIKeys: []string{"sk-one"}}, interfaces.Dependencies{HTTPClient: http})

	doc, err := c.Generate(context.Background(), "a bakery site", "")

	require.NoError(t, err)
	assert.Equal(t, "<html><body>hi</body></html>", doc)
	assert.Equal(t, "https://ai.test/v1/chat/completions", gotURL)
	assert.Equal(t, "Bearer sk-one", gotAuth)
	assert.Equal(t, DefaultModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "a bakery site", gotReq.Messages[1].Content)
	assert.False(t, gotReq.Stream)
}

func TestGenerate_FallsBackToNextKey(t *testing.T) {
	var keys []string
	http := &mockHTTPClient{postFunc: func(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
		keys = append(keys, headers["Authorization"])
		if len(keys) == 1 {
			return &mockResponse{statusCode: 401, body: `{"error":{"message":"bad key"}}`}, nil
		}
		return &mockResponse{statusCode: 200, body: completion("<p>ok</p>")}, nil
	}}
	c := NewClient(Config{APIKeys: []string{"sk-aaaa", "sk-bbbb"}}, interfaces.Dependencies{HTTPClient: http})

	doc, err := c.Generate(context.Background(), "x", "gpt-4o")

	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", doc)
	assert.Equal(t, []string{"Bearer sk-aaaa", "Bearer sk-bbbb"}, keys)
}

func TestGenerate_AllKeysFail(t *testing.T) {
	http := &mockHTTPClient{postFunc: func(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
		if headers["Authorization"] == "Bearer sk-1111" {
			return nil, errors.New("connection refused")
		}
		return &mockResponse{statusCode: 502, body: "<html>Bad Gateway</html>"}, nil
	}}
	c := NewClient(Config{APIKeys: []string{"sk-1111", "sk-2222"}}, interfaces.Dependencies{HTTPClient: http})

	_, err := c.Generate(context.Background(), "x", "")

	require.Error(t, err)
	assert.True(t, coreerrors.IsExternalAPI(err))
	assert.Contains(t, err.Error(), "...1111: connection refused")
	assert.Contains(t, err.Error(), "...2222: invalid JSON (status 502)")
}

func TestGenerate_Validation(t *testing.T) {
	c := NewClient(Config{APIKeys: []string{"k"}}, interfaces.Dependencies{HTTPClient: &mockHTTPClient{}})

	_, err := c.Generate(context.Background(), "   ", "")
	assert.True(t, coreerrors.IsValidation(err))

	_, err = c.Generate(context.Background(), strings.Repeat("x", maxPromptLen+1), "")
	assert.True(t, coreerrors.IsValidation(err))
}

func TestGenerate_NotConfigured(t *testing.T) {
	c := NewClient(Config{}, interfaces.Dependencies{HTTPClient: &mockHTTPClient{}})

	_, err := c.Generate(context.Background(), "x", "")

	assert.True(t, coreerrors.IsExternalAPI(err))
}

func TestGenerate_EmptyChoices(t *testing.T) {
	http := &mockHTTPClient{postFunc: func(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
		return &mockResponse{statusCode: 200, body: `{"choices":[]}`}, nil
	}}
	c := NewClient(Config{APIKeys: []string{"k"}}, interfaces.Dependencies{HTTPClient: http})

	_, err := c.Generate(context.Background(), "x", "")

	assert.True(t, coreerrors.IsExternalAPI(err))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "<p>x</p>", StripFences("```html\n<p>x</p>\n```"))
	assert.Equal(t, "<p>x</p>", StripFences("  <p>x</p>  "))
}
