package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/corpus"
	"github.com/poiesic/latif/observe"
	"github.com/poiesic/latif/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, rejected := corpus.Build([]core.Verse{
		{ID: 1, Text: "الله واحد لا شريک، هن جو نالو وٺي ڪري", Theme: core.ThemeDivineLove, Emotion: core.EmotionPeaceful, Sur: "Sur Kalyan"},
		{ID: 2, Text: "سڄڻ جي ياد ۾ دل اداس", Theme: core.ThemeHumanLove, Emotion: core.EmotionLonging, Sur: "Sur Sarang"},
		{ID: 3, Text: "رب جو ذڪر", Theme: core.ThemeDivineLove, Emotion: core.EmotionPeaceful, Sur: "Sur Kalyan"},
	})
	require.Empty(t, rejected)
	return c
}

func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	require.NoError(t, err)
	return m
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	base := []Option{
		WithMetrics(testMetrics(t)),
		WithEngineOptions(recommend.WithSeed(1)),
	}
	s, err := New(testCorpus(t), append(base, opts...)...)
	require.NoError(t, err)
	return s
}

// envelope decodes a response with its data left raw.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, s *Server, method, target, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func openSession(t *testing.T, s *Server) string {
	t.Helper()
	code, env := do(t, s, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, code)
	var created SessionCreated
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestNew(t *testing.T) {
	t.Run("nil corpus", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrCorpusRequired)
	})

	t.Run("bad engine options", func(t *testing.T) {
		_, err := New(testCorpus(t), WithMetrics(testMetrics(t)), WithEngineOptions(recommend.WithAnalyzer(nil)))
		assert.ErrorIs(t, err, recommend.ErrAnalyzerRequired)
	})

	t.Run("negative session limit", func(t *testing.T) {
		_, err := New(testCorpus(t), WithMaxSessions(-1))
		assert.Error(t, err)
	})
}

func TestRecommendationFlow(t *testing.T) {
	s := newTestServer(t)
	id := openSession(t, s)

	code, env := do(t, s, http.MethodPost, "/api/sessions/"+id+"/recommendations", `{"transcript":"الله واحد لا شريک"}`)
	require.Equal(t, http.StatusOK, code)
	var recs []core.Recommendation
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	require.Len(t, recs, 3)
	assert.Equal(t, 1, recs[0].Verse.ID)
	assert.InDelta(t, 0.70, recs[0].RelevanceScore, 1e-9)
	assert.False(t, recs[0].Fallback)

	code, env = do(t, s, http.MethodPost, "/api/sessions/"+id+"/feedback", `{"verseId":1,"isRelevant":true}`)
	require.Equal(t, http.StatusOK, code)
	var acc core.AccuracyMetrics
	require.NoError(t, json.Unmarshal(env.Data, &acc))
	assert.Equal(t, 1, acc.TotalFeedback)
	assert.InDelta(t, 1.0, acc.PositiveRatio, 1e-9)

	code, env = do(t, s, http.MethodGet, "/api/sessions/"+id+"/accuracy", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &acc))
	assert.Equal(t, 1, acc.TotalFeedback)

	code, _ = do(t, s, http.MethodDelete, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, s.sessions.len())

	code, env = do(t, s, http.MethodPost, "/api/sessions/"+id+"/recommendations", `{"transcript":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, ErrSessionNotFound.Error(), env.Message)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	a := openSession(t, s)
	b := openSession(t, s)
	require.NotEqual(t, a, b)

	code, _ := do(t, s, http.MethodPost, "/api/sessions/"+a+"/feedback", `{"verseId":1,"isRelevant":false}`)
	require.Equal(t, http.StatusOK, code)

	_, env := do(t, s, http.MethodGet, "/api/sessions/"+b+"/accuracy", "")
	var acc core.AccuracyMetrics
	require.NoError(t, json.Unmarshal(env.Data, &acc))
	assert.Zero(t, acc.TotalFeedback)
}

func TestFeedback_Invalid(t *testing.T) {
	s := newTestServer(t)
	id := openSession(t, s)

	tests := []struct {
		name string
		body string
	}{
		{"missing verdict", `{"verseId":1}`},
		{"missing verse", `{"isRelevant":true}`},
		{"negative verse", `{"verseId":-4,"isRelevant":true}`},
		{"malformed json", `{"verseId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, s, http.MethodPost, "/api/sessions/"+id+"/feedback", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestSessionLimit(t *testing.T) {
	s := newTestServer(t, WithMaxSessions(1))
	id := openSession(t, s)

	code, env := do(t, s, http.MethodPost, "/api/sessions", "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, ErrTooManySessions.Error(), env.Message)

	do(t, s, http.MethodDelete, "/api/sessions/"+id, "")
	openSession(t, s)
}

func TestDeleteSession_Unknown(t *testing.T) {
	s := newTestServer(t)
	code, _ := do(t, s, http.MethodDelete, "/api/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVerses(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		code   int
		want   []int
	}{
		{"all", "/api/verses", http.StatusOK, []int{1, 2, 3}},
		{"theme", "/api/verses?theme=divinelove", http.StatusOK, []int{1, 3}},
		{"emotion", "/api/verses?emotion=Longing", http.StatusOK, []int{2}},
		{"query", "/api/verses?q=Sarang", http.StatusOK, []int{2}},
		{"no match", "/api/verses?q=missing", http.StatusOK, []int{}},
		{"unknown theme", "/api/verses?theme=Flowers", http.StatusBadRequest, nil},
		{"unknown emotion", "/api/verses?emotion=Bored", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, s, http.MethodGet, tt.target, "")
			require.Equal(t, tt.code, code)
			if tt.want == nil {
				return
			}
			var verses []core.Verse
			require.NoError(t, json.Unmarshal(env.Data, &verses))
			got := []int{}
			for _, v := range verses {
				got = append(got, v.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerse(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/verses/3", "")
	require.Equal(t, http.StatusOK, code)
	var v core.Verse
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "رب جو ذڪر", v.Text)

	code, _ = do(t, s, http.MethodGet, "/api/verses/99", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, s, http.MethodGet, "/api/verses/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestThemesAndEmotions(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodGet, "/api/themes", "")
	var themes []core.Theme
	require.NoError(t, json.Unmarshal(env.Data, &themes))
	assert.Equal(t, []core.Theme{core.ThemeDivineLove, core.ThemeHumanLove}, themes)

	_, env = do(t, s, http.MethodGet, "/api/emotions", "")
	var emotions []core.Emotion
	require.NoError(t, json.Unmarshal(env.Data, &emotions))
	assert.Equal(t, []core.Emotion{core.EmotionPeaceful, core.EmotionLonging}, emotions)
}

func TestMetricsEndpoint(t *testing.T) {
	var hits int
	s := newTestServer(t, WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})))

	code, _ := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, hits)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, WithAllowOrigins("http://localhost:5173"))

	req := httptest.NewRequest(http.MethodOptions, "/api/verses", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestConcurrentSessions(t *testing.T) {
	s := newTestServer(t)

	ids := make([]string, 8)
	for i := range ids {
		ids[i] = openSession(t, s)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/recommendations", strings.NewReader(`{"transcript":"رب"}`))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				rec := httptest.NewRecorder()
				s.ServeHTTP(rec, req)
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, s.sessions.len())

	require.NoError(t, s.Shutdown(context.Background()))
	assert.Zero(t, s.sessions.len())
}
