package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/redis"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewServer(t *testing.T) {
	srv := newServer(http.NotFoundHandler())

	if srv.Addr != ":"+config.GetServerPort() {
		t.Errorf("Expected addr :%s, got %s", config.GetServerPort(), srv.Addr)
	}
	if srv.ReadHeaderTimeout != 15*time.Second {
		t.Errorf("Expected read header timeout 15s, got %v", srv.ReadHeaderTimeout)
	}
	if srv.WriteTimeout != 10*time.Second {
		t.Errorf("Expected write timeout 10s, got %v", srv.WriteTimeout)
	}
	if srv.IdleTimeout != 30*time.Second {
		t.Errorf("Expected idle timeout 30s, got %v", srv.IdleTimeout)
	}
}

func TestNewServer_ServesHandler(t *testing.T) {
	srv := newServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("could not send GET request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", resp.StatusCode)
	}
}

func TestEnvironmentVariables(t *testing.T) {
	port := config.GetServerPort()
	if port != "8080" {
		t.Errorf("Expected default port 8080, got %s", port)
	}
}

func TestLogQuota(t *testing.T) {
	mr := miniredis.RunT(t)
	prevAddr, prevQuota := config.GetRedisAddr(), config.GetGeocodingDailyQuota()
	viper.Set("redis.addr", mr.Addr())
	viper.Set("opencage.daily_quota", 5)
	redis.ResetClientForTest()
	t.Cleanup(func() {
		viper.Set("redis.addr", prevAddr)
		viper.Set("opencage.daily_quota", prevQuota)
		redis.ResetClientForTest()
	})
	mr.Set("geocode:quota:"+time.Now().UTC().Format("2006-01-02"), "2")

	core, logs := observer.New(zapcore.InfoLevel)
	logQuota(context.Background(), zap.New(core).Sugar())

	entries := logs.FilterMessage("Geocoding quota").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one quota log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["used"] != int64(2) || fields["limit"] != int64(5) {
		t.Errorf("Unexpected quota fields %v", fields)
	}
}

func TestLogQuota_RedisDown(t *testing.T) {
	prevAddr := config.GetRedisAddr()
	viper.Set("redis.addr", "127.0.0.1:1")
	redis.ResetClientForTest()
	t.Cleanup(func() {
		viper.Set("redis.addr", prevAddr)
		redis.ResetClientForTest()
	})

	core, logs := observer.New(zapcore.InfoLevel)
	logQuota(context.Background(), zap.New(core).Sugar())

	if logs.FilterMessage("Redis unavailable, geocoding quota will not be enforced").Len() != 1 {
		t.Errorf("Expected an unavailable warning, got %v", logs.All())
	}
}
