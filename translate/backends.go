package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// checkLocale validates a locale against a service's supported list.
// Matching is case-insensitive but separator-sensitive: the mismatch is
// what triggers negotiation against the service's own spellings.
func checkLocale(service, code string, supported []string) error {
	for _, s := range supported {
		if strings.EqualFold(s, code) {
			return nil
		}
	}
	return &UnsupportedLanguageError{Service: service, Requested: code, Supported: supported}
}

func checkLocales(service string, cfg Config, supported []string) error {
	if err := checkLocale(service, cfg.Source, supported); err != nil {
		return err
	}
	return checkLocale(service, cfg.Target, supported)
}

// triageStatus maps an HTTP error status to the error taxonomy.
func triageStatus(service string, status int, body []byte) error {
	detail := truncate(strings.TrimSpace(string(body)), 200)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Service: service, Detail: detail}
	case http.StatusTooManyRequests, 456: // 456 is DeepL's quota-exceeded status
		return &QuotaError{Service: service, Detail: detail}
	default:
		return &NetworkError{Service: service, Err: fmt.Errorf("unexpected status %d: %s", status, detail)}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// doJSON posts a JSON body and decodes a JSON response, triaging
// non-2xx statuses through the shared taxonomy.
func doJSON(ctx context.Context, client *http.Client, service, method, endpoint string, headers map[string]string, reqBody []byte, out any) error {
	var body io.Reader
	if reqBody != nil {
		body = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &NetworkError{Service: service, Err: err}
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &NetworkError{Service: service, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Service: service, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return triageStatus(service, resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &NetworkError{Service: service, Err: fmt.Errorf("invalid JSON response: %w", err)}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Google (unauthenticated gtx endpoint)
// ---------------------------------------------------------------------------

var googleLocales = []string{
	"auto", "af", "ar", "be", "bg", "bs", "ca", "cs", "da", "de", "el", "en",
	"es", "et", "fa", "fi", "fr", "he", "hi", "hr", "hu", "id", "it", "ja",
	"ko", "lt", "lv", "ms", "nl", "no", "pl", "pt", "ro", "ru", "sk", "sl",
	"sr", "sv", "th", "tr", "uk", "ur", "vi", "zh-CN", "zh-TW",
}

type googleBackend struct {
	cfg    Config
	client *http.Client
}

func newGoogle(cfg Config) (Backend, error) {
	if err := checkLocales("Google", cfg, googleLocales); err != nil {
		return nil, err
	}
	return &googleBackend{cfg: cfg, client: makeHTTPClient(cfg.Proxies)}, nil
}

func (g *googleBackend) Name() string { return "Google" }

func (g *googleBackend) Translate(ctx context.Context, text string) (string, error) {
	endpoint := "https://translate.googleapis.com/translate_a/single?" + url.Values{
		"client": {"gtx"},
		"sl":     {g.cfg.Source},
		"tl":     {g.cfg.Target},
		"dt":     {"t"},
		"q":      {text},
	}.Encode()

	// Response is a nested array: [[["Hallo","Hello",...],...],...]
	var raw []any
	if err := doJSON(ctx, g.client, "Google", http.MethodGet, endpoint, nil, nil, &raw); err != nil {
		return "", err
	}
	segments, ok := first(raw).([]any)
	if !ok {
		return "", &NetworkError{Service: "Google", Err: fmt.Errorf("unexpected response shape")}
	}
	var b strings.Builder
	for _, seg := range segments {
		if parts, ok := seg.([]any); ok {
			if s, ok := first(parts).(string); ok {
				b.WriteString(s)
			}
		}
	}
	return b.String(), nil
}

func first(arr []any) any {
	if len(arr) == 0 {
		return nil
	}
	return arr[0]
}

// ---------------------------------------------------------------------------
// MyMemory
// ---------------------------------------------------------------------------

var myMemoryLocales = []string{
	"ar-SA", "bg-BG", "cs-CZ", "da-DK", "de-DE", "el-GR", "en-GB", "en-US",
	"es-ES", "et-EE", "fi-FI", "fr-FR", "he-IL", "hi-IN", "hr-HR", "hu-HU",
	"id-ID", "it-IT", "ja-JP", "ko-KR", "lt-LT", "lv-LV", "nl-NL", "no-NO",
	"pl-PL", "pt-BR", "pt-PT", "ro-RO", "ru-RU", "sk-SK", "sl-SI", "sr-RS",
	"sv-SE", "th-TH", "tr-TR", "uk-UA", "vi-VN", "zh-CN", "zh-TW",
}

type myMemoryBackend struct {
	cfg    Config
	client *http.Client
}

func newMyMemory(cfg Config) (Backend, error) {
	if err := checkLocales("MyMemory", cfg, myMemoryLocales); err != nil {
		return nil, err
	}
	return &myMemoryBackend{cfg: cfg, client: makeHTTPClient(cfg.Proxies)}, nil
}

func (m *myMemoryBackend) Name() string { return "MyMemory" }

func (m *myMemoryBackend) Translate(ctx context.Context, text string) (string, error) {
	endpoint := "https://api.mymemory.translated.net/get?" + url.Values{
		"q":        {text},
		"langpair": {m.cfg.Source + "|" + m.cfg.Target},
	}.Encode()

	var resp struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  any    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}
	if err := doJSON(ctx, m.client, "MyMemory", http.MethodGet, endpoint, nil, nil, &resp); err != nil {
		return "", err
	}
	// MyMemory reports quota exhaustion inside a 200 response.
	if strings.Contains(strings.ToUpper(resp.ResponseDetails), "FREE TRANSLATIONS") {
		return "", &QuotaError{Service: "MyMemory", Detail: resp.ResponseDetails}
	}
	if fmt.Sprint(resp.ResponseStatus) != "200" {
		return "", &NetworkError{Service: "MyMemory", Err: fmt.Errorf("response status %v: %s", resp.ResponseStatus, resp.ResponseDetails)}
	}
	return resp.ResponseData.TranslatedText, nil
}

// ---------------------------------------------------------------------------
// Microsoft Translator
// ---------------------------------------------------------------------------

var microsoftLocales = []string{
	"af", "ar", "bg", "bs", "ca", "cs", "da", "de", "el", "en", "es", "et",
	"fa", "fi", "fr", "he", "hi", "hr", "hu", "id", "it", "ja", "ko", "lt",
	"lv", "ms", "nl", "pl", "pt", "pt-pt", "ro", "ru", "sk", "sl", "sr-Latn",
	"sv", "th", "tr", "uk", "ur", "vi", "zh-Hans", "zh-Hant",
}

type microsoftBackend struct {
	cfg    Config
	client *http.Client
}

func newMicrosoft(cfg Config) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, &AuthError{Service: "Microsoft", Detail: "API key required"}
	}
	if err := checkLocales("Microsoft", cfg, microsoftLocales); err != nil {
		return nil, err
	}
	return &microsoftBackend{cfg: cfg, client: makeHTTPClient(cfg.Proxies)}, nil
}

func (m *microsoftBackend) Name() string { return "Microsoft" }

func (m *microsoftBackend) Translate(ctx context.Context, text string) (string, error) {
	endpoint := "https://api.cognitive.microsofttranslator.com/translate?" + url.Values{
		"api-version": {"3.0"},
		"from":        {m.cfg.Source},
		"to":          {m.cfg.Target},
	}.Encode()

	reqBody, err := json.Marshal([]map[string]string{{"Text": text}})
	if err != nil {
		return "", &NetworkError{Service: "Microsoft", Err: err}
	}
	headers := map[string]string{
		"Ocp-Apim-Subscription-Key": m.cfg.APIKey,
	}
	if m.cfg.Region != "" {
		headers["Ocp-Apim-Subscription-Region"] = m.cfg.Region
	}

	var resp []struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := doJSON(ctx, m.client, "Microsoft", http.MethodPost, endpoint, headers, reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 || len(resp[0].Translations) == 0 {
		return "", &NetworkError{Service: "Microsoft", Err: fmt.Errorf("empty translation response")}
	}
	return resp[0].Translations[0].Text, nil
}

// ---------------------------------------------------------------------------
// Yandex Translate
// ---------------------------------------------------------------------------

var yandexLocales = []string{
	"af", "ar", "az", "be", "bg", "bs", "ca", "cs", "da", "de", "el", "en",
	"es", "et", "fa", "fi", "fr", "he", "hi", "hr", "hu", "hy", "id", "it",
	"ja", "ka", "kk", "ko", "ky", "lt", "lv", "mk", "ms", "nl", "no", "pl",
	"pt", "ro", "ru", "sk", "sl", "sr", "sv", "tg", "th", "tr", "uk", "uz",
	"vi", "zh",
}

type yandexBackend struct {
	cfg    Config
	client *http.Client
}

func newYandex(cfg Config) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, &AuthError{Service: "Yandex", Detail: "API key required"}
	}
	if err := checkLocales("Yandex", cfg, yandexLocales); err != nil {
		return nil, err
	}
	return &yandexBackend{cfg: cfg, client: makeHTTPClient(cfg.Proxies)}, nil
}

func (y *yandexBackend) Name() string { return "Yandex" }

func (y *yandexBackend) Translate(ctx context.Context, text string) (string, error) {
	reqBody, err := json.Marshal(map[string]any{
		"sourceLanguageCode": y.cfg.Source,
		"targetLanguageCode": y.cfg.Target,
		"texts":              []string{text},
	})
	if err != nil {
		return "", &NetworkError{Service: "Yandex", Err: err}
	}
	headers := map[string]string{
		"Authorization": "Api-Key " + y.cfg.APIKey,
	}

	var resp struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	err = doJSON(ctx, y.client, "Yandex", http.MethodPost,
		"https://translate.api.cloud.yandex.net/translate/v2/translate", headers, reqBody, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Translations) == 0 {
		return "", &NetworkError{Service: "Yandex", Err: fmt.Errorf("empty translation response")}
	}
	return resp.Translations[0].Text, nil
}

// ---------------------------------------------------------------------------
// ChatGPT
// ---------------------------------------------------------------------------

const chatGPTDefaultModel = "gpt-4o-mini"

type chatGPTBackend struct {
	cfg    Config
	model  string
	client *http.Client
}

func newChatGPT(cfg Config) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, &AuthError{Service: "ChatGPT", Detail: "API key required"}
	}
	model := cfg.Model
	if model == "" {
		model = chatGPTDefaultModel
	}
	return &chatGPTBackend{cfg: cfg, model: model, client: makeHTTPClient(nil)}, nil
}

func (c *chatGPTBackend) Name() string { return "ChatGPT" }

func (c *chatGPTBackend) Translate(ctx context.Context, text string) (string, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	reqBody, err := json.Marshal(struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
	}{
		Model: c.model,
		Messages: []msg{
			{Role: "system", Content: fmt.Sprintf(
				"Translate the user's text from %s to %s. Reply with the translation only, no quotes, no commentary.",
				c.cfg.Source, c.cfg.Target)},
			{Role: "user", Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", &NetworkError{Service: "ChatGPT", Err: err}
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	err = doJSON(ctx, c.client, "ChatGPT", http.MethodPost,
		"https://api.openai.com/v1/chat/completions", headers, reqBody, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &NetworkError{Service: "ChatGPT", Err: fmt.Errorf("empty completion response")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ---------------------------------------------------------------------------
// DeepL
// ---------------------------------------------------------------------------

var deepLLocales = []string{
	"BG", "CS", "DA", "DE", "EL", "EN", "EN-GB", "EN-US", "ES", "ET", "FI",
	"FR", "HU", "ID", "IT", "JA", "KO", "LT", "LV", "NB", "NL", "PL", "PT",
	"PT-BR", "PT-PT", "RO", "RU", "SK", "SL", "SV", "TR", "UK", "ZH",
}

type deepLBackend struct {
	cfg      Config
	endpoint string
	client   *http.Client
}

func newDeepL(cfg Config) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, &AuthError{Service: "DeepL", Detail: "API key required"}
	}
	if err := checkLocales("DeepL", cfg, deepLLocales); err != nil {
		return nil, err
	}
	endpoint := "https://api-free.deepl.com/v2/translate"
	if strings.EqualFold(cfg.KeyTier, "pro") {
		endpoint = "https://api.deepl.com/v2/translate"
	}
	return &deepLBackend{cfg: cfg, endpoint: endpoint, client: makeHTTPClient(nil)}, nil
}

func (d *deepLBackend) Name() string { return "DeepL" }

func (d *deepLBackend) Translate(ctx context.Context, text string) (string, error) {
	reqBody, err := json.Marshal(struct {
		Text       []string `json:"text"`
		SourceLang string   `json:"source_lang"`
		TargetLang string   `json:"target_lang"`
	}{
		Text:       []string{text},
		SourceLang: strings.ToUpper(d.cfg.Source),
		TargetLang: strings.ToUpper(d.cfg.Target),
	})
	if err != nil {
		return "", &NetworkError{Service: "DeepL", Err: err}
	}
	headers := map[string]string{
		"Authorization": "DeepL-Auth-Key " + d.cfg.APIKey,
	}

	var resp struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := doJSON(ctx, d.client, "DeepL", http.MethodPost, d.endpoint, headers, reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Translations) == 0 {
		return "", &NetworkError{Service: "DeepL", Err: fmt.Errorf("empty translation response")}
	}
	return resp.Translations[0].Text, nil
}
