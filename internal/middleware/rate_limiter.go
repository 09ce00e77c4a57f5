package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
	"golang.org/x/time/rate"
)

// DefaultParamKey is the form/query field used for per-param limiting.
const DefaultParamKey = "postal_code"

// visitor holds a limiter and the last time its key was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig rates are expressed in requests per minute.
type RateLimiterConfig struct {
	GlobalRate     float64
	GlobalBurst    int
	ParamRate      float64
	ParamBurst     int
	ParamKey       string
	CleanupTimeout time.Duration
}

// ConfigFromViper reads the rate_limiter section of config.yaml.
func ConfigFromViper() RateLimiterConfig {
	globalRate, globalBurst := config.GetGlobalRateLimiterConfig()
	paramRate, paramBurst := config.GetParamRateLimiterConfig()
	return RateLimiterConfig{
		GlobalRate:     globalRate,
		GlobalBurst:    globalBurst,
		ParamRate:      paramRate,
		ParamBurst:     paramBurst,
		ParamKey:       DefaultParamKey,
		CleanupTimeout: config.GetRateLimiterCleanupTimeout(),
	}
}

// RateLimiter enforces a per-IP limit and a per-IP-and-postal-code limit,
// so one client cannot burn through the upstream geocoding key.
type RateLimiter struct {
	cfg RateLimiterConfig

	muGlobal sync.Mutex
	global   map[string]*visitor // key: ip

	muParam sync.Mutex
	param   map[string]map[string]*visitor // key: ip -> param value
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.ParamKey == "" {
		cfg.ParamKey = DefaultParamKey
	}
	if cfg.CleanupTimeout <= 0 {
		cfg.CleanupTimeout = 3 * time.Minute
	}
	return &RateLimiter{
		cfg:    cfg,
		global: make(map[string]*visitor),
		param:  make(map[string]map[string]*visitor),
	}
}

func perMinute(r float64) rate.Limit {
	return rate.Limit(r / 60.0)
}

func (rl *RateLimiter) globalLimiter(ip string) *rate.Limiter {
	rl.muGlobal.Lock()
	defer rl.muGlobal.Unlock()
	v, exists := rl.global[ip]
	if !exists {
		limiter := rate.NewLimiter(perMinute(rl.cfg.GlobalRate), rl.cfg.GlobalBurst)
		rl.global[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) paramLimiter(ip, param string) *rate.Limiter {
	rl.muParam.Lock()
	defer rl.muParam.Unlock()
	if _, ok := rl.param[ip]; !ok {
		rl.param[ip] = make(map[string]*visitor)
	}
	v, exists := rl.param[ip][param]
	if !exists {
		limiter := rate.NewLimiter(perMinute(rl.cfg.ParamRate), rl.cfg.ParamBurst)
		rl.param[ip][param] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup drops visitors not seen within the cleanup timeout.
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.muGlobal.Lock()
	for ip, v := range rl.global {
		if now.Sub(v.lastSeen) > rl.cfg.CleanupTimeout {
			delete(rl.global, ip)
		}
	}
	rl.muGlobal.Unlock()

	rl.muParam.Lock()
	for ip, paramMap := range rl.param {
		for param, v := range paramMap {
			if now.Sub(v.lastSeen) > rl.cfg.CleanupTimeout {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(rl.param, ip)
		}
	}
	rl.muParam.Unlock()
}

// StartCleanup sweeps stale visitors every minute until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.cleanup(now)
			}
		}
	}()
}

// Reset clears all visitor state. Used primarily for testing.
func (rl *RateLimiter) Reset() {
	rl.muGlobal.Lock()
	clear(rl.global)
	rl.muGlobal.Unlock()
	rl.muParam.Lock()
	clear(rl.param)
	rl.muParam.Unlock()
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

func writeTooManyRequests(w http.ResponseWriter, message, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse(message, errMsg))
}

// Middleware returns an HTTP middleware that enforces both limits.
// If a limit is exceeded, it responds with a 429 status and a JSON error message.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		param := strings.TrimSpace(r.FormValue(rl.cfg.ParamKey))
		if param == "" {
			// If param is missing, treat as a single bucket
			param = "__none__"
		}
		if !rl.globalLimiter(ip).Allow() {
			config.GetLogger().Infow("Rate limited", "ip", ip, "scope", "global")
			writeTooManyRequests(w, "Too Many Requests (global limit)", "Rate limit exceeded: too many calculations from this IP")
			return
		}
		if !rl.paramLimiter(ip, param).Allow() {
			config.GetLogger().Infow("Rate limited", "ip", ip, "scope", "postal_code", "postal_code", param)
			writeTooManyRequests(w, "Too Many Requests (per-param limit)", "Rate limit exceeded: too many calculations for this postal code")
			return
		}
		next.ServeHTTP(w, r)
	})
}
