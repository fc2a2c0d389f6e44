/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wtsi-hgi/fsscan/config"
	"github.com/wtsi-hgi/fsscan/ingest"
)

var (
	ingestFormat      string
	ingestFilesystem  string
	ingestDataDir     string
	ingestStorePath   string
	ingestBatchSize   int
	ingestWorkerCount int
	ingestReplace     bool
	ingestLogFile     string
)

// ingestCmd represents the ingest command.
var ingestCmd = &cobra.Command{
	Use:   "ingest input-file",
	Short: "Ingest a filesystem scan log into a queryable store",
	Long: `Ingest a filesystem scan log (GPFS policy-engine output, Lustre ` +
		"lfs find output, or a generic POSIX export) into a per-filesystem " +
		`SQLite store of directory-level statistics and histograms.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if ingestLogFile != "" {
			logToFile(ingestLogFile)
		}

		if err := runIngest(args[0]); err != nil {
			die("%s", err)
		}
	},
}

func runIngest(inputFile string) error {
	cfg := ingest.Config{
		InputFile:       inputFile,
		Format:          ingestFormat,
		Filesystem:      ingestFilesystem,
		BatchSize:       ingestBatchSize,
		WorkerCount:     ingestWorkerCount,
		ReplaceExisting: ingestReplace,
		Logger:          appLogger,
	}
	cfg.Normalize()

	storePath := ingestStorePath

	if storePath == "" && ingestDataDir != "" {
		storePath = filepath.Join(ingestDataDir, cfg.Filesystem+".db")
	}

	cfg.StorePath = config.ResolveStorePath(storePath, cfg.Filesystem)

	info("ingesting %s into %s", inputFile, cfg.StorePath)

	summary, err := ingest.Run(cfg)
	if err != nil {
		return err
	}

	cliPrint("ingested %s: %d directories, %d files, %d bytes in %s\n",
		summary.Filesystem, summary.Directories, summary.Files, summary.TotalSize, summary.Elapsed)

	if summary.Anomalies.UnattributedParent > 0 || summary.Anomalies.ParseSkip > 0 {
		warn("ingest completed with anomalies: %d parse skips, %d unattributed parents, "+
			"%d host lookup misses, %d timestamp anomalies",
			summary.Anomalies.ParseSkip, summary.Anomalies.UnattributedParent,
			summary.Anomalies.HostLookupMiss, summary.Anomalies.TimestampAnomaly)
	}

	return nil
}

func init() {
	RootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestFormat, "format", "", "scan format (gpfs|lustre|posix), else auto-detected")
	ingestCmd.Flags().StringVar(&ingestFilesystem, "filesystem", "",
		"filesystem name, else derived from the input file name")
	ingestCmd.Flags().StringVar(&ingestDataDir, "data-dir", "",
		"directory holding per-filesystem stores (else "+config.EnvDataDir+")")
	ingestCmd.Flags().StringVar(&ingestStorePath, "store", "", "explicit store path, overrides data-dir/env")
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", ingest.DefaultBatchSize,
		"pending directories accumulated before a store flush")
	ingestCmd.Flags().IntVar(&ingestWorkerCount, "workers", ingest.DefaultWorkerCount,
		"parallel chunk-parsing workers")
	ingestCmd.Flags().BoolVar(&ingestReplace, "replace", false, "replace an existing store at the target path")
	ingestCmd.Flags().StringVar(&ingestLogFile, "log-file", "", "also log to this file, in addition to stderr")
}
