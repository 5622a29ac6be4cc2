package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/identifier"
	"github.com/trezcool/masomo-portal/core/langflag"
)

var errInvalidCPF = errors.New("invalid CPF found")

type commandLine struct {
	in  io.Reader
	out io.Writer
	rnd *rand.Rand

	loadConfig func() (*core.Config, error)
	openDB     func(conf *core.Config) (*sql.DB, error)
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Masomo portal admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(cli.in)
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	root.AddCommand(cli.cpfCmd(), cli.flagCmd(), cli.migrateCmd())
	return root
}

func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) cpfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cpf",
		Short: "Validate or generate CPF numbers",
	}

	validate := &cobra.Command{
		Use:   "validate CPF...",
		Short: "Check CPF numbers; exits with an error if any is invalid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.validateCPFs(args)
		},
	}

	var count int
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Print random valid CPF numbers (for seeding test data)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.Errorf("-n must be positive (got %d)", count)
			}
			for i := 0; i < count; i++ {
				formatted, _ := identifier.Format(identifier.Generate(cli.rnd))
				fmt.Fprintln(cli.out, formatted)
			}
			return nil
		},
	}
	generate.Flags().IntVarP(&count, "count", "n", 1, "Number of CPFs to generate")

	cmd.AddCommand(validate, generate)
	return cmd
}

func (cli *commandLine) validateCPFs(values []string) error {
	var invalid int
	for _, v := range values {
		if formatted, ok := identifier.Format(v); ok {
			fmt.Fprintf(cli.out, "%s\tvalid\t%s\n", v, formatted)
		} else {
			invalid++
			fmt.Fprintf(cli.out, "%s\tinvalid\n", v)
		}
	}
	if invalid > 0 {
		return errInvalidCPF
	}
	return nil
}

func (cli *commandLine) flagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flag",
		Short: "Resolve language flags",
	}

	resolve := &cobra.Command{
		Use:   "resolve [FILE]",
		Short: "Resolve the flag of a lesson/module JSON payload read from FILE or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return cli.resolveFlag(path)
		},
	}

	code := &cobra.Command{
		Use:   "code CODE...",
		Short: "Print the flag of language codes (pt-BR, en, fr_CA...)",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range args {
				fmt.Fprintf(cli.out, "%s\t%s\n", c, langflag.ForCode(c))
			}
		},
	}

	cmd.AddCommand(resolve, code)
	return cmd
}

func (cli *commandLine) resolveFlag(path string) error {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = ioutil.ReadAll(cli.in)
	} else {
		data, err = ioutil.ReadFile(path)
	}
	if err != nil {
		return errors.Wrap(err, "reading payload")
	}

	// a single carrier or a list of them
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var carriers []*langflag.Carrier
		if err := json.Unmarshal(data, &carriers); err != nil {
			return errors.Wrap(err, "decoding payload")
		}
		for _, c := range carriers {
			fmt.Fprintln(cli.out, langflag.Resolve(c))
		}
		return nil
	}

	var carrier langflag.Carrier
	if err := json.Unmarshal(data, &carrier); err != nil {
		return errors.Wrap(err, "decoding payload")
	}
	fmt.Fprintln(cli.out, langflag.Resolve(&carrier))
	return nil
}

func newCommandLine() *commandLine {
	return &commandLine{
		in:  os.Stdin,
		out: os.Stdout,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),

		loadConfig: core.NewConfig,
		openDB:     openDB,
	}
}
