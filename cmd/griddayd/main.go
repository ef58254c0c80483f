package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mvdwaal/gridday/internal/engine"
	"github.com/mvdwaal/gridday/internal/store"
	"github.com/mvdwaal/gridday/internal/uiapi"
	"github.com/spf13/cobra"
)

func main() {
	var port int
	var dbPath string

	rootCmd := &cobra.Command{
		Use:   "griddayd",
		Short: "GridDay HTTP server for the game UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				home, _ := os.UserHomeDir()
				dbPath = filepath.Join(home, ".gridday", "gridday.db")
			}

			st, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			srv, err := uiapi.NewServer(st, engine.DefaultCatalog(), engine.NewTariff())
			if err != nil {
				return fmt.Errorf("restoring session: %w", err)
			}

			addr := fmt.Sprintf(":%d", port)
			log.Printf("GridDay server starting on port %d", port)
			log.Printf("Database: %s", dbPath)

			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	rootCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Database path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
