// cmd/seedmesas: Carga el plano del salón desde un YAML.
// Uso: go run ./cmd/seedmesas -f plano.yaml
//
//	mesas:
//	  - numero: 1
//	    nombre: Ventana
//	    capacidad: 2
//	    zona: terraza
package main

import (
	"context"
	"flag"
	"os"

	"comandapos/internal/config"
	"comandapos/internal/dto"
	"comandapos/internal/infra"
	"comandapos/internal/repository"
	"comandapos/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type plano struct {
	Mesas []mesaYAML `yaml:"mesas"`
}

type mesaYAML struct {
	Numero      int     `yaml:"numero"`
	Nombre      *string `yaml:"nombre"`
	Capacidad   *int    `yaml:"capacidad"`
	Zona        *string `yaml:"zona"`
	OrdenVisual *int    `yaml:"orden_visual"`
}

func main() {
	file := flag.String("f", "plano.yaml", "archivo YAML con el plano")
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("no se pudo leer el plano")
	}
	var p plano
	if err := yaml.Unmarshal(raw, &p); err != nil {
		log.Fatal().Err(err).Msg("YAML inválido")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	inventario := service.NewInventarioService(repository.NewInventarioRepository(db), repository.NewMovimientoStockRepository(db), nil)
	svc := service.NewMesaService(
		repository.NewMesaRepository(db),
		repository.NewFacturaRepository(db),
		repository.NewCocinaRepository(db),
		repository.NewProductoRepository(db),
		repository.NewClienteRepository(db),
		inventario, nil, nil, nil,
	)

	ctx := context.Background()
	creadas := 0
	for _, m := range p.Mesas {
		_, err := svc.CrearMesa(ctx, dto.CrearMesaRequest{
			Numero: m.Numero, Nombre: m.Nombre, Capacidad: m.Capacidad, Zona: m.Zona, OrdenVisual: m.OrdenVisual,
		})
		switch {
		case err == nil:
			creadas++
		case service.KindOf(err) == service.KindConflict:
			log.Info().Int("numero", m.Numero).Msg("mesa existente, se omite")
		default:
			log.Fatal().Err(err).Int("numero", m.Numero).Msg("error creando mesa")
		}
	}
	log.Info().Int("creadas", creadas).Int("total", len(p.Mesas)).Msg("plano cargado")
}
