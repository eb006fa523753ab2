// Copyright 2018 MPI-SWS and Valentin Wuestholz

// This file is part of Valan.
//
// Valan is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Valan is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Valan.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"

	"github.com/practical-formal-methods/valan/analysis"
	"github.com/practical-formal-methods/valan/config"
)

type Result_msg struct {
	Bindings map[string]string
	Random   bool
	Error    string `json:",omitempty"`
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogging(level string) error {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		return err
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat(false))))
	return nil
}

func readPrograms(path string) (map[string][]Step_msg, error) {
	filePtr, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer filePtr.Close()

	var programs map[string][]Step_msg
	if err := json.NewDecoder(filePtr).Decode(&programs); err != nil {
		return nil, fmt.Errorf("decode %s: %v", path, err)
	}
	return programs, nil
}

func writeResults(path string, results map[string]*Result_msg) error {
	out := os.Stdout
	if path != "" {
		filePtr, err := os.Create(path)
		if err != nil {
			return err
		}
		defer filePtr.Close()
		out = filePtr
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func run(cfgPath, programPath, outPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Log.Level); err != nil {
		return err
	}
	opts, err := analysis.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	if programPath == "" {
		d, err := analysis.NewDomain(opts)
		if err != nil {
			return err
		}
		log.Info("Replay table", "values", d.Table.Len(), "positions", d.Table.Positions())
		return nil
	}
	programs, err := readPrograms(programPath)
	if err != nil {
		return err
	}

	results := map[string]*Result_msg{}
	for name, steps := range programs {
		// Each program replays from the first recorded value.
		d, err := analysis.NewDomain(opts)
		if err != nil {
			return err
		}
		res := &Result_msg{Bindings: map[string]string{}}
		s, err := execute(d, steps)
		if err != nil {
			log.Warn("Program failed", "name", name, "err", err)
			res.Error = err.Error()
		} else {
			for _, b := range s.Constants() {
				res.Bindings[b.Loc.String()] = b.Value.String()
			}
			res.Random = s.UsedRandomChoice()
		}
		results[name] = res
		log.Debug("Program analyzed", "name", name, "tracked", len(res.Bindings))
	}
	return writeResults(outPath, results)
}

func main() {
	cfgPath := flag.String("config", "", "TOML configuration file")
	programPath := flag.String("program", "", "JSON file of straight-line programs to evaluate")
	outPath := flag.String("out", "", "result file (default stdout)")
	flag.Parse()

	if err := run(*cfgPath, *programPath, *outPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
