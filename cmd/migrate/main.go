package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"gotransfer/config"
	"gotransfer/internal/pkg/database"
	"gotransfer/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema: %v", err)
	}

	cfg := config.LoadConfig()

	var verbose bool
	flag.BoolVar(&verbose, "v", false, "exibe o log detalhado do goose")
	flag.Parse()

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao banco: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o banco: %v\n", err)
		}
	}()

	dialect, err := database.GooseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatalf("goose: %v", err)
	}
	if err := goose.SetDialect(string(dialect)); err != nil {
		log.Fatalf("goose: %v", err)
	}
	// As migrações vêm embutidas no binário.
	goose.SetBaseFS(migrations.FS)
	if !verbose {
		goose.SetLogger(goose.NopLogger())
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := goose.Run(command, db, ".", args...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}

	fmt.Printf("goose %s success\n", command)
}
