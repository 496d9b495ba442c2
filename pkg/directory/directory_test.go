package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/outreach/pkg/utils"
)

func TestFlattenHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello there", "Hello there"},
		{"line breaks", "Hi {{firstName}},<br>Quick one.<br/><br/>Thanks", "Hi {{firstName}}, Quick one. Thanks"},
		{"paragraphs", "<p>First</p><p>Second &amp; third</p>", "First Second & third"},
		{"inline tags", `Call <b>me</b> at <a href="x">this link</a>`, "Call me at this link"},
		{"script dropped", "<p>Keep</p><script>var x = 1;</script><style>p{}</style>", "Keep"},
		{"custom var span", `<span class="custom-var">{[senderFirstName]}</span>`, "{[senderFirstName]}"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlattenHTML(tt.in))
		})
	}
}

func TestCampaign_PlainTextOrdersNumericKeys(t *testing.T) {
	c := &Campaign{Templates: map[string]Template{
		"10": {Content: "<p>ten</p>"},
		"2":  {Content: "two"},
		"1":  {Content: "one<br>uno"},
		"x":  {Content: "last"},
	}}
	assert.Equal(t, "one uno two ten last", c.PlainText())
}

func TestClient_User(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u-1", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"u-1","timezone":"Europe/London"}`))
	}))
	defer server.Close()

	u, err := NewClient(server.URL+"/", "key", time.Second).User(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", u.Timezone)
}

func TestClient_FetchCampaign(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/campaigns/c-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"c-9","templates":{"0":{"content":"<p>Hey {{firstName}}!</p>"},"1":{"content":"Still keen?"}}}`))
	}))
	defer server.Close()

	camp, err := NewClient(server.URL, "", time.Second).FetchCampaign(context.Background(), "c-9")
	require.NoError(t, err)
	assert.Equal(t, "Hey {{firstName}}! Still keen?", camp.PlainText())
}

func TestClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.User(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, utils.HasCategory(err, utils.CategoryNetwork))

	_, err = client.FetchCampaign(context.Background(), "")
	require.Error(t, err)
	assert.True(t, utils.IsValidationError(err))

	_, err = NewClient("", "", time.Second).User(context.Background(), "u")
	require.Error(t, err)
	assert.True(t, utils.HasCategory(err, utils.CategoryConfiguration))
}
