/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command primefix runs a FIX initiator session against a configured
// Coinbase Prime FIX endpoint, logging logon, logout, session rejects and
// inbound application messages.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/akorobka/quickfix"
	"github.com/akorobka/quickfix/fixclient"
)

func main() {
	settingsPath := flag.String("config", "session.cfg", "path to the session settings file")
	dictPath := flag.String("dictionary", "", "path to a FIX data dictionary XML file (optional)")
	storePath := flag.String("store", "", "path to a SQLite message store database (optional, falls back to in-memory)")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090 (optional)")
	flag.Parse()

	apiKey := os.Getenv("PRIME_FIX_API_KEY")
	apiSecret := os.Getenv("PRIME_FIX_API_SECRET")
	passphrase := os.Getenv("PRIME_FIX_PASSPHRASE")
	senderCompID := os.Getenv("PRIME_FIX_SENDER_COMP_ID")
	targetCompID := os.Getenv("PRIME_FIX_TARGET_COMP_ID")
	portfolioID := os.Getenv("PRIME_FIX_PORTFOLIO_ID")

	if apiKey == "" || apiSecret == "" || senderCompID == "" || targetCompID == "" {
		log.Fatal("PRIME_FIX_API_KEY, PRIME_FIX_API_SECRET, PRIME_FIX_SENDER_COMP_ID and PRIME_FIX_TARGET_COMP_ID must be set")
	}

	settings, err := quickfix.LoadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("loading session settings: %v", err)
	}

	var dict *quickfix.DataDictionary
	if *dictPath != "" {
		dict, err = quickfix.LoadDataDictionary(*dictPath)
		if err != nil {
			log.Fatalf("loading data dictionary: %v", err)
		}
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer zapLogger.Sync()
	logFactory := quickfix.NewZapLogFactory(zapLogger)

	registry := prometheus.NewRegistry()
	metrics := quickfix.NewMetrics(registry)
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				zapLogger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	var storeFac quickfix.StoreFactory
	if *storePath != "" {
		storeFac = quickfix.SQLStoreFactory{Path: *storePath}
	} else {
		storeFac = quickfix.MemoryStoreFactory{}
	}

	config := fixclient.NewConfig(apiKey, apiSecret, passphrase, senderCompID, targetCompID, portfolioID)
	app := fixclient.NewFixApp(config)

	initiator := quickfix.NewInitiator(app, settings, storeFac, dict, logFactory, metrics)
	if err := initiator.Start(); err != nil {
		log.Fatalf("starting FIX initiator: %v", err)
	}
	defer initiator.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}
