package service

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/genghao161-arch/anyue-lemon-project/internal/cache"
	"github.com/genghao161-arch/anyue-lemon-project/internal/config"
	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrWeatherNotConfigured = errors.New("weather service is not configured")
	ErrWeatherUpstream      = errors.New("weather upstream request failed")
)

const (
	weatherTokenTTL    = 900 * time.Second
	weatherTokenLeeway = 30 * time.Second
	weatherCacheTTL    = 60 * time.Second
	weatherTokenKey    = "weather:token"
)

// WeatherService proxies the QWeather JWT API, caching both the signed
// token and upstream responses so the widget cannot burn through the quota.
type WeatherService struct {
	host         string
	projectID    string
	credentialID string
	location     string
	privateKey   ed25519.PrivateKey
	cache        cache.Cache
	client       *http.Client
}

func NewWeatherService(cfg *config.Config, c cache.Cache) (*WeatherService, error) {
	s := &WeatherService{
		host:         cfg.QWeatherHost,
		projectID:    cfg.QWeatherProjectID,
		credentialID: cfg.QWeatherCredentialID,
		location:     cfg.QWeatherLocation,
		cache:        c,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
	if cfg.QWeatherPrivateKey == "" {
		return s, nil
	}
	key, err := jwt.ParseEdPrivateKeyFromPEM([]byte(cfg.QWeatherPrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse qweather private key: %w", err)
	}
	edKey, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("qweather private key is not ed25519")
	}
	s.privateKey = edKey
	return s, nil
}

func (s *WeatherService) configured() bool {
	return s.host != "" && s.projectID != "" && s.credentialID != "" && s.privateKey != nil
}

// Now returns realtime conditions plus the next hours' forecast. The hourly
// block is best-effort: a failed hourly fetch still yields the realtime part.
func (s *WeatherService) Now(ctx context.Context) (*model.WeatherNow, error) {
	var now model.QWeatherNowResponse
	if err := s.fetch(ctx, "/v7/weather/now", &now); err != nil {
		return nil, err
	}
	if now.Code != "200" {
		return nil, fmt.Errorf("%w: realtime code %s", ErrWeatherUpstream, now.Code)
	}

	payload := &model.WeatherNow{
		Temp:       now.Now.Temp,
		Desc:       now.Now.Text,
		Humidity:   now.Now.Humidity + "%",
		Precip:     now.Now.Precip + "mm",
		WindDir:    now.Now.WindDir,
		WindSpeed:  now.Now.WindSpeed + "km/h",
		UpdateTime: now.UpdateTime,
		Hourly:     []model.WeatherHour{},
	}

	var hourly model.QWeatherHourlyResponse
	if err := s.fetch(ctx, "/v7/weather/24h", &hourly); err == nil && hourly.Code == "200" {
		for i, h := range hourly.Hourly {
			if i >= 8 {
				break
			}
			payload.Hourly = append(payload.Hourly, model.WeatherHour{
				FxTime: h.FxTime,
				Temp:   h.Temp,
				Icon:   h.Icon,
				Text:   h.Text,
			})
		}
	}
	return payload, nil
}

// Daily returns the 7-day forecast.
func (s *WeatherService) Daily(ctx context.Context) (*model.WeatherDaily, error) {
	var daily model.QWeatherDailyResponse
	if err := s.fetch(ctx, "/v7/weather/7d", &daily); err != nil {
		return nil, err
	}
	if daily.Code != "200" {
		return nil, fmt.Errorf("%w: daily code %s", ErrWeatherUpstream, daily.Code)
	}

	payload := &model.WeatherDaily{
		UpdateTime: daily.UpdateTime,
		Days:       make([]model.WeatherDay, 0, len(daily.Daily)),
	}
	for _, d := range daily.Daily {
		payload.Days = append(payload.Days, model.WeatherDay{
			Date:           d.FxDate,
			TempMax:        d.TempMax,
			TempMin:        d.TempMin,
			TextDay:        d.TextDay,
			TextNight:      d.TextNight,
			IconDay:        d.IconDay,
			IconNight:      d.IconNight,
			WindDirDay:     d.WindDirDay,
			WindScaleDay:   d.WindScaleDay,
			WindDirNight:   d.WindDirNight,
			WindScaleNight: d.WindScaleNight,
			Humidity:       d.Humidity,
			Precip:         d.Precip,
			UVIndex:        d.UVIndex,
		})
	}
	return payload, nil
}

func (s *WeatherService) fetch(ctx context.Context, path string, target any) error {
	if !s.configured() {
		return ErrWeatherNotConfigured
	}

	cacheKey := "weather:" + path + ":" + s.location
	if body, err := s.cache.Get(ctx, cacheKey); err == nil {
		return json.Unmarshal([]byte(body), target)
	}

	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	endpoint := "https://" + s.host + path + "?location=" + url.QueryEscape(s.location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWeatherUpstream, err)
	}
	defer resp.Body.Close()

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrWeatherUpstream, err)
	}

	_ = s.cache.Set(ctx, cacheKey, string(buf), weatherCacheTTL)
	return json.Unmarshal(buf, target)
}

// token returns a cached EdDSA JWT for the QWeather API, signing a fresh one
// when the cache misses. Cached slightly short of its expiry.
func (s *WeatherService) token(ctx context.Context) (string, error) {
	if tok, err := s.cache.Get(ctx, weatherTokenKey); err == nil {
		return tok, nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": s.projectID,
		"iat": now.Add(-weatherTokenLeeway).Unix(),
		"exp": now.Add(weatherTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = s.credentialID

	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign weather token: %w", err)
	}

	_ = s.cache.Set(ctx, weatherTokenKey, signed, weatherTokenTTL-60*time.Second)
	return signed, nil
}
