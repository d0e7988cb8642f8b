// main.go
//
// An English to Vietnamese vocabulary and flashcard service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lexideck.
// lexideck is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lexideck is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lexideck.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/lexideck/internal/containers"
	"github.com/localnerve/lexideck/internal/database"
	"github.com/localnerve/lexideck/internal/logger"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var noRedis bool
	flag.BoolVar(&noRedis, "no-redis", false, "start postgres only")
	var migrate bool
	flag.BoolVar(&migrate, "migrate", true, "apply the postgres migrations once the database is up")
	flag.Parse()

	usage := `
Run postgres and redis containers for local lexideck development and print
the environment to point the server at them.

Usage:

devstack [-h] [-f ENV_FILE_PATH] [-no-redis] [-migrate=false]

ENV_FILE_PATH: path to a .env file with POSTGRES_IMAGE, REDIS_IMAGE overrides

example
  devstack -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envFilename != "" {
		log.Info("Loading environment variables", "file", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatal("Failed to load environment variables", "error", err)
		}
	}

	opts := containers.DefaultOptions()
	if image := os.Getenv("POSTGRES_IMAGE"); image != "" {
		opts.PostgresImage = image
	}
	if image := os.Getenv("REDIS_IMAGE"); image != "" {
		opts.RedisImage = image
	}
	opts.WithRedis = !noRedis

	ctx := context.Background()
	stack, err := containers.Start(ctx, opts)
	if err != nil {
		log.Fatal("Failed to start containers", "error", err)
	}

	if migrate {
		if err := database.MigratePostgres(stack.Config(), log); err != nil {
			_ = stack.Terminate(ctx)
			log.Fatal("Failed to migrate database", "error", err)
		}
	}

	env := stack.Env()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, env[k])
	}
	log.Info("Containers running, press Ctrl-C to stop")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigs

	log.Info("Terminating containers", "signal", sig.String())
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := stack.Terminate(stopCtx); err != nil {
		log.Error("Failed to terminate containers", "error", err)
	}
}
