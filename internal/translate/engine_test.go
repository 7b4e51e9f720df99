package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/internal/translate/mock"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_FiltersUnavailableProviders(t *testing.T) {
	engine := NewEngine(time.Second,
		mock.NewUnavailableProvider("deepl"),
		mock.NewEchoProvider("google"),
	)

	assert.Equal(t, 1, engine.ProviderCount())
}

func TestTranslateText_EmptyInputSkipsProviders(t *testing.T) {
	p := mock.NewEchoProvider("deepl")
	engine := NewEngine(time.Second, p)

	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "   \t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.TranslateText(context.Background(), tt.text, "en", "ar")
			require.NoError(t, err)
			assert.Equal(t, tt.text, out)
		})
	}
	assert.Equal(t, int64(0), p.Calls.Load())
}

func TestTranslateText_NoProviders(t *testing.T) {
	engine := NewEngine(time.Second)

	_, err := engine.TranslateText(context.Background(), "Hello", "en", "ar")
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestTranslateText_FallsBackToSecondProvider(t *testing.T) {
	failing := mock.NewFailingProvider("deepl", errors.New("quota exceeded"))
	echo := mock.NewEchoProvider("google")
	engine := NewEngine(time.Second, failing, echo)

	out, err := engine.TranslateText(context.Background(), "Hello", "en", "fr")
	require.NoError(t, err)
	assert.Equal(t, "[fr] Hello", out)
	assert.Equal(t, int64(1), failing.Calls.Load())
	assert.Equal(t, int64(1), echo.Calls.Load())
}

func TestTranslateText_PrimaryPreferredWhenHealthy(t *testing.T) {
	primary := mock.NewEchoProvider("deepl")
	secondary := mock.NewEchoProvider("google")
	engine := NewEngine(time.Second, primary, secondary)

	_, err := engine.TranslateText(context.Background(), "Hello", "en", "de")
	require.NoError(t, err)
	assert.Equal(t, int64(1), primary.Calls.Load())
	assert.Equal(t, int64(0), secondary.Calls.Load())
}

func TestTranslateText_AllProvidersFail(t *testing.T) {
	a := mock.NewFailingProvider("deepl", errors.New("down"))
	b := mock.NewFailingProvider("google", errors.New("also down"))
	engine := NewEngine(time.Second, a, b)

	_, err := engine.TranslateText(context.Background(), "Hello", "en", "it")
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	// Both providers tried plus one final retry on the first.
	assert.Equal(t, int64(2), a.Calls.Load())
	assert.Equal(t, int64(1), b.Calls.Load())
}

func TestTranslateContent_AllLocalesPopulated(t *testing.T) {
	engine := NewEngine(time.Second, mock.NewEchoProvider("deepl"))

	result := engine.TranslateContent(context.Background(), models.TranslationRequest{
		Key:           "hero.title",
		Text:          "Hello",
		SourceLocale:  "en",
		TargetLocales: []string{"ar", "tr", "fr"},
	})

	require.True(t, result.Success)
	assert.Len(t, result.Translations, 3)
	assert.Equal(t, "[tr] Hello", result.Translations["tr"])
	assert.Equal(t, "[fr] Hello", result.Translations["fr"])
}

func TestTranslateContent_SourceLocaleVerbatim(t *testing.T) {
	p := mock.NewEchoProvider("deepl")
	engine := NewEngine(time.Second, p)

	result := engine.TranslateContent(context.Background(), models.TranslationRequest{
		Key:           "hero.title",
		Text:          "Hello",
		SourceLocale:  "en",
		TargetLocales: []string{"en", "tr"},
	})

	require.True(t, result.Success)
	assert.Equal(t, "Hello", result.Translations["en"])
	// Only the tr slot hits a provider.
	assert.Equal(t, int64(1), p.Calls.Load())
}

func TestTranslateContent_LocaleFailureIsolated(t *testing.T) {
	p := &mock.Provider{
		Name_:      "deepl",
		Available_: true,
		TranslateFunc: func(_ context.Context, text, _, to string) (string, error) {
			if to == "tr" {
				return "", errors.New("turkish is down")
			}
			return "[" + to + "] " + text, nil
		},
	}
	engine := NewEngine(time.Second, p)

	result := engine.TranslateContent(context.Background(), models.TranslationRequest{
		Key:           "hero.title",
		Text:          "Hello",
		SourceLocale:  "en",
		TargetLocales: []string{"tr", "fr"},
	})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.ErrorFor("tr"))
	assert.Empty(t, result.ErrorFor("fr"))
	// Failed locale falls back to source text, never an empty slot.
	assert.Equal(t, "Hello", result.Translations["tr"])
	assert.Equal(t, "[fr] Hello", result.Translations["fr"])
}

func TestTranslateContent_ArabicGetsDirectionalityProcessing(t *testing.T) {
	p := &mock.Provider{
		Name_:      "deepl",
		Available_: true,
		TranslateFunc: func(_ context.Context, _, _, _ string) (string, error) {
			return "بنيت باستخدام React", nil
		},
	}
	engine := NewEngine(time.Second, p)

	result := engine.TranslateContent(context.Background(), models.TranslationRequest{
		Key:           "projects.site.description",
		Text:          "Built with React",
		SourceLocale:  "en",
		TargetLocales: []string{"ar"},
	})

	require.True(t, result.Success)
	assert.Equal(t, "بنيت باستخدام React", result.Raw["ar"])
	assert.Equal(t, `بنيت باستخدام <span dir="ltr">React</span>`, result.Translations["ar"])
}
