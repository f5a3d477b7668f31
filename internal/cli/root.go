// Package cli implementa o slipctl, ferramenta administrativa do GoTransfer:
// cadastro de filiais e PINs, emissão de guias com QR code e tokens de operador.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gotransfer/internal/pkg/database"
	"gotransfer/internal/pkg/logger"
)

const dbTimeout = 5 * time.Second

// app guarda o estado compartilhado entre os subcomandos.
type app struct {
	v *viper.Viper
}

// NewRootCmd monta a árvore de comandos. As flags globais também podem vir do ambiente
// (DB_DRIVER, DATABASE_URL, LOG_LEVEL, JWT_SECRET_KEY).
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "slipctl",
		Short:         "Administração do GoTransfer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("db-driver", "postgres", "driver do banco (postgres | sqlite)")
	flags.String("database-url", "", "DSN do banco ou caminho do arquivo SQLite")
	flags.String("log-level", "warn", "nível de log")
	_ = a.v.BindPFlag("DB_DRIVER", flags.Lookup("db-driver"))
	_ = a.v.BindPFlag("DATABASE_URL", flags.Lookup("database-url"))
	_ = a.v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		a.migrateCmd(),
		a.tokenCmd(),
		a.pinCmd(),
		a.branchCmd(),
		a.staffCmd(),
		a.slipCmd(),
		a.operatorCmd(),
	)
	return rootCmd
}

// Execute roda o slipctl com os argumentos do processo.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

func (a *app) logger(cmd *cobra.Command) logger.Logger {
	return logger.New(cmd.ErrOrStderr(), a.v.GetString("LOG_LEVEL"), true)
}

func (a *app) driver() string {
	return strings.ToLower(a.v.GetString("DB_DRIVER"))
}

func (a *app) openDB() (*sql.DB, error) {
	dsn := a.v.GetString("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("informe --database-url ou DATABASE_URL")
	}
	return database.Open(a.driver(), dsn)
}
