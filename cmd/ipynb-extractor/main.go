// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ipynb-extractor CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ipynb-extractor/internal/discover"
	"github.com/pdiddy/ipynb-extractor/internal/extract"
	"github.com/pdiddy/ipynb-extractor/internal/prompt"
	"github.com/pdiddy/ipynb-extractor/pkg/types"
)

// version is set at build time via ldflags.
var version = "0.1"

const heading = `Read a Jupyter notebook (.ipynb) file and extract to a folder
the markdown and code cells as markdown.md and python.py files.`

const selectPrompt = "Select the ipynb file for extraction of cells"

// rootCmd is the base command for the ipynb-extractor CLI.
var rootCmd = &cobra.Command{
	Use:   "ipynb-extractor [FILE]...",
	Short: "Extract the markdown and code cells of Jupyter notebooks into files",
	Long: `ipynb-extractor reads Jupyter notebook (.ipynb) files and writes every
markdown and code cell to its own file in a folder named after the notebook.

With no FILE arguments the .ipynb files of the working directory are listed
and one is selected interactively. Run with --help for the full help.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runExtract,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./ipynb-extractor.yaml or ~/.config/ipynb-extractor/config.yaml)")
	pf.StringP("dir", "C", ".", "working directory holding notebooks and output folders")
	pf.String("history-db", "", "extraction history database (default: ~/.config/ipynb-extractor/history.db)")
	pf.BoolP("verbose", "v", false, "log debug diagnostics to stderr")

	f := rootCmd.Flags()
	f.String("overwrite", string(types.OverwritePrompt), "existing output folder handling: prompt, always, or never")
	f.Bool("diff", false, "report added, removed, and changed cell files when a folder is replaced")
	f.Bool("no-history", false, "do not record the run in the extraction history")

	viper.BindPFlag("dir", pf.Lookup("dir"))
	viper.BindPFlag("history_db", pf.Lookup("history-db"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("overwrite", f.Lookup("overwrite"))
	viper.BindPFlag("diff", f.Lookup("diff"))
	viper.BindPFlag("no_history", f.Lookup("no-history"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ipynb-extractor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ipynb-extractor"))
		}
	}

	viper.SetEnvPrefix("IPYNB_EXTRACTOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func printBanner(w io.Writer) {
	fmt.Fprintf(w, "\nipynb-extractor version: %s\n\n%s\n\n", version, heading)
}

func runExtract(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printBanner(out)

	cfg, err := extractorConfig(viper.GetViper())
	if err != nil {
		return err
	}
	p := prompt.New(cmd.InOrStdin(), out)

	names := args
	if len(names) == 0 {
		name, err := selectNotebook(p, cfg.WorkDir, out)
		if err != nil {
			return err
		}
		names = []string{name}
	} else if err := validateNotebookArgs(names, cfg.WorkDir, out); err != nil {
		return err
	}

	opts := []extract.Option{
		extract.WithOutput(out),
		extract.WithConfirmer(p),
	}
	if store := openHistory(viper.GetViper(), out); store != nil {
		defer store.Close()
		opts = append(opts, extract.WithRecorder(store))
	}

	_, err = extract.New(cfg, opts...).ExtractAll(cmd.Context(), names)
	return err
}

// menu picks one entry of a list.
type menu interface {
	Select(items []string, prompt string, def int) (int, error)
}

// selectNotebook lists the notebooks in dir and lets the user pick one.
func selectNotebook(m menu, dir string, w io.Writer) (string, error) {
	files, err := discover.Files(dir, types.NotebookExtension)
	if err != nil {
		return "", err
	}
	index, err := m.Select(files, selectPrompt, 1)
	if err != nil {
		return "", err
	}
	if index == -1 {
		return "", fmt.Errorf("no files with extension of .%s were found in %s", types.NotebookExtension, dir)
	}
	fmt.Fprintf(w, "File selected for extraction of cells: %s\n", files[index])
	return files[index], nil
}

// validateNotebookArgs checks that every name has the notebook extension,
// then that every name is a file directly in dir. Paths with a directory
// part are not in dir. It stops at the first problem.
func validateNotebookArgs(names []string, dir string, w io.Writer) error {
	for _, name := range names {
		if !discover.HasExtension(name, types.NotebookExtension) {
			return fmt.Errorf("must be a .%s file: %s is not valid", types.NotebookExtension, name)
		}
	}
	for _, name := range names {
		if filepath.Base(name) != name {
			return fmt.Errorf("%s not in directory %s", name, dir)
		}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.Mode().IsRegular() {
			return fmt.Errorf("%s not in directory %s", name, dir)
		}
		fmt.Fprintf(w, "%s exists in: %s\n", name, dir)
	}
	return nil
}

func main() {
	if text, ok := helpText(os.Args[1:]); ok {
		printBanner(os.Stdout)
		fmt.Print(text)
		return
	}

	// The first interrupt cancels between cells and rolls the folder back.
	// Default handling is restored after it, so a second one ends a blocked prompt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
