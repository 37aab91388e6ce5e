//----------------------------------------------------------------------
// This file is part of gnfs.
// Copyright (C) 2023-present, Bernd Fix  >Y<
//
// gnfs is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnfs is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

//********************************************************************/
//*    PGMID.        INTEGER FACTORIZATION TOOL.                     */
//*    AUTHOR.       BERND R. FIX   >Y<                              */
//*    DATE WRITTEN. 23/09/07.                                       */
//*    COPYRIGHT.    (C) BY BERND R. FIX. ALL RIGHTS RESERVED.       */
//*                  LICENSED MATERIAL - PROGRAM PROPERTY OF THE     */
//*                  AUTHOR. REFER TO COPYRIGHT INSTRUCTIONS.        */
//*    REMARKS.                                                      */
//********************************************************************/

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/bfix/gnfs"
	"github.com/bfix/gnfs/arith"
	"github.com/bfix/gnfs/benchmark"
	"github.com/bfix/gnfs/config"
	"github.com/bfix/gnfs/logger"
)

func main() {
	var (
		number   string
		base     string
		degree   int
		bound    int64
		quantity int
		vrange   int
		fresh    bool
		cfgFile  string
		bench    string
		runs     int
	)
	flag.StringVar(&number, "n", "", "number to factor (decimal)")
	flag.StringVar(&base, "base", "", "polynomial base m (default: quality search)")
	flag.IntVar(&degree, "degree", 0, "polynomial degree (default: by digit count)")
	flag.Int64Var(&bound, "bound", 0, "rational factor-base bound (default: by digit count)")
	flag.IntVar(&quantity, "quantity", 0, "target smooth-relation count")
	flag.IntVar(&vrange, "range", 0, "sieve value range per batch")
	flag.BoolVar(&fresh, "fresh", false, "discard persisted state and start over")
	flag.StringVar(&cfgFile, "config", "gnfs.yaml", "configuration file")
	flag.StringVar(&bench, "bench", "", "benchmark digit sizes (comma-separated)")
	flag.IntVar(&runs, "runs", 0, "benchmark runs per digit size")
	flag.Parse()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)
	log := logger.Logger()

	// benchmark mode
	if bench != "" {
		var sizes []int
		for _, s := range strings.Split(bench, ",") {
			d, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || d < 1 {
				fmt.Fprintf(os.Stderr, "invalid digit size %q\n", s)
				os.Exit(1)
			}
			sizes = append(sizes, d)
		}
		fmt.Println(benchmark.CollectSystemInfo())
		results := benchmark.Run(sizes, runs)
		fmt.Print(benchmark.Table(results))
		return
	}

	if number == "" {
		flag.Usage()
		os.Exit(1)
	}
	n := arith.NewIntFromString(number)

	// cooperative cancellation on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params := gnfs.Params{
		PolynomialDegree:   degree,
		RelationQuantity:   quantity,
		RelationValueRange: vrange,
		Fresh:              fresh,
	}
	if base != "" {
		params.PolynomialBase = arith.NewIntFromString(base)
	}
	if bound > 0 {
		params.PrimeBound = arith.NewInt(bound)
	}

	sol, err := gnfs.Factor(ctx, cfg, n, params)
	if err != nil {
		log.Error().Err(err).Msg("factorization failed")
		os.Exit(1)
	}
	fmt.Printf("%s = %s * %s\n", n, sol.P, sol.Q)
}
