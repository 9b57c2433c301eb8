// cmd/devtoken: Emite un JWT de desarrollo firmado con JWT_SECRET.
// Uso: go run ./cmd/devtoken -rol mesero -user ana
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"comandapos/internal/config"
	"comandapos/internal/middleware"
	"comandapos/internal/model"

	"github.com/google/uuid"
)

func main() {
	rol := flag.String("rol", model.RolAdministrador, "mesero | cajero | cocinero | supervisor | administrador")
	user := flag.String("user", "dev", "username del token")
	ttl := flag.Duration("ttl", 0, "vigencia (default JWT_EXPIRATION_HOURS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no configurado")
		os.Exit(1)
	}
	if *ttl == 0 {
		*ttl = time.Duration(cfg.JWTExpirationHours) * time.Hour
	}

	token, err := middleware.SignToken(cfg.JWTSecret, uuid.NewString(), *user, *rol, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
