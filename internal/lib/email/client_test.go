package email

import (
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func newTestClient(s sender) *Client {
	logger := zerolog.Nop()
	return &Client{emails: s, from: "Usergroups <test@example.com>", logger: &logger}
}

func TestRender_PreviewData(t *testing.T) {
	for name, data := range PreviewData {
		t.Run(string(name), func(t *testing.T) {
			html, err := Render(name, data)
			require.NoError(t, err)
			for _, v := range data {
				assert.Contains(t, html, v)
			}
		})
	}
}

func TestRender_EscapesData(t *testing.T) {
	html, err := Render(TemplateWelcome, map[string]string{"UserName": "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}

func TestSendWelcomeEmail(t *testing.T) {
	fake := &fakeSender{}
	c := newTestClient(fake)

	require.NoError(t, c.SendWelcomeEmail("alice@example.com", "Alice"))

	require.Len(t, fake.sent, 1)
	req := fake.sent[0]
	assert.Equal(t, "Usergroups <test@example.com>", req.From)
	assert.Equal(t, []string{"alice@example.com"}, req.To)
	assert.Equal(t, "Welcome to Usergroups!", req.Subject)
	assert.Contains(t, req.Html, "Welcome, Alice!")
}

func TestSendEmail_ProviderError(t *testing.T) {
	c := newTestClient(&fakeSender{err: errors.New("rate limited")})

	err := c.SendWelcomeEmail("alice@example.com", "Alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
