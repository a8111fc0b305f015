// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"crypto/tls"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	"github.com/caarlos0/env/v11"
	"github.com/ttbt-io/statkeeper/backend"
)

var (
	addr      = flag.String("addr", "", "The TCP address to listen to")
	dataDir   = flag.String("data-dir", "", "Directory for the persisted store")
	debugMode = flag.Bool("debug", false, "Enable debug mode")
	tlsCert   = flag.String("tls-cert", "", "Path to TLS certificate")
	tlsKey    = flag.String("tls-key", "", "Path to TLS key")
)

// envConfig holds environment-provided settings. Flags override the
// addr and data-dir values.
type envConfig struct {
	Addr      string `env:"SK_ADDR" envDefault:":8080"`
	DataDir   string `env:"SK_DATA_DIR" envDefault:"data"`
	MasterKey string `env:"SK_MASTER_KEY"`
}

// main starts the web server and registers the API handlers.
func main() {
	flag.Parse()

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	var mainTLSCert *tls.Certificate
	if *tlsCert != "" && *tlsKey != "" {
		cert, err := tls.LoadX509KeyPair(*tlsCert, *tlsKey)
		if err != nil {
			log.Fatalf("Failed to load TLS cert/key: %v", err)
		}
		mainTLSCert = &cert
	}

	// Initialize Encryption Key and Storage
	var masterKey crypto.MasterKey
	keyFile := filepath.Join(cfg.DataDir, "master.key")
	if cfg.MasterKey != "" {
		os.MkdirAll(cfg.DataDir, 0755)

		var err error
		masterKey, err = crypto.ReadMasterKey([]byte(cfg.MasterKey), keyFile)
		if err != nil {
			if os.IsNotExist(err) {
				log.Println("Initializing new master encryption key...")
				masterKey, err = crypto.CreateMasterKey()
				if err != nil {
					log.Fatalf("Failed to create master key: %v", err)
				}
				if err := masterKey.Save([]byte(cfg.MasterKey), keyFile); err != nil {
					log.Fatalf("Failed to save master key: %v", err)
				}
			} else {
				log.Fatalf("Failed to read master key: %v", err)
			}
		} else {
			log.Println("Loaded master encryption key.")
		}
	} else {
		if _, err := os.Stat(keyFile); err == nil {
			log.Fatalf("Critical Security Error: %s exists but SK_MASTER_KEY is not set. Refusing to start in unencrypted mode to prevent data corruption or exposure.", keyFile)
		}
		log.Println("Warning: No SK_MASTER_KEY provided. Data will be stored UNENCRYPTED.")
	}

	store := storage.New(cfg.DataDir, masterKey)
	store.EnableCompression(true)

	server, err := backend.StartServer(backend.Options{
		Addr:    cfg.Addr,
		Cert:    mainTLSCert,
		DataDir: cfg.DataDir,
		Debug:   *debugMode,
		Storage: store,
	})
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Listening on %s, data in %s", cfg.Addr, cfg.DataDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
