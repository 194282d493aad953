// stubserver runs the local stand-in for the hosted task backend. With
// STUB_EMBEDDED_REDIS=1 it starts an in-process miniredis so no external
// services are needed at all.
package main

import (
	"context"
	"os"
	"strconv"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/hubhiv/taskboard/stub"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if embedded, _ := strconv.ParseBool(os.Getenv("STUB_EMBEDDED_REDIS")); embedded || redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatalf("embedded redis: %v", err)
		}
		defer mr.Close()
		redisAddr = mr.Addr()
		log.WithField("addr", redisAddr).Info("stub: using embedded redis")
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})

	secret := os.Getenv("STUB_JWT_SECRET")
	if secret == "" {
		secret = "stub-dev-secret"
	}
	auth := stub.NewAuthenticator([]byte(secret), []stub.User{
		{ID: "2", Email: "demo@hubhiv.test", Password: "demo", Name: "Demo Homeowner"},
	})

	st := stub.NewStorage(rdb)
	if seed, _ := strconv.ParseBool(os.Getenv("STUB_SEED")); seed {
		if err := stub.Seed(context.Background(), st, "2"); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	logger := log.New()
	stub.Register(e, st, auth, logger)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}
	e.Logger.Fatal(e.Start(listenAddr))
}
