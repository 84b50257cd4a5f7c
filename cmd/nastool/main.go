// Command-line tool for inspecting ICARTT and NASA Ames FFI 1001 data files.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nastools/gonas/pkg/ames"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "nastool",
		Usage:   "inspect ICARTT and NASA Ames FFI 1001 data files",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "force the record dialect: ict or nas",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "Print a header summary",
				ArgsUsage: "FILE",
				Action:    runInfo,
			},
			{
				Name:      "times",
				Usage:     "Print the start and end timestamps of the data payload",
				ArgsUsage: "FILE",
				Action:    runTimes,
			},
			{
				Name:      "columns",
				Usage:     "Print the resolved column names",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "case",
						Value: "upper",
						Usage: "case normalization: upper, lower or as-is",
					},
				},
				Action: runColumns,
			},
			{
				Name:      "stats",
				Usage:     "Read all records and print payload statistics",
				ArgsUsage: "FILE",
				Action:    runStats,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openFile(c *cli.Context) (*ames.File, error) {
	if c.NArg() != 1 {
		return nil, cli.Exit("exactly one input file expected", 1)
	}
	path := c.Args().First()
	if format := c.String("format"); format != "" {
		return ames.NewFileWithFormat(path, ames.Format(format))
	}
	return ames.NewFile(path)
}

func runInfo(c *cli.Context) error {
	f, err := openFile(c)
	if err != nil {
		return err
	}
	hdr, err := f.ReadHeader()
	if err != nil {
		return err
	}
	if err := hdr.Validate(); err != nil {
		return err
	}

	fmt.Println(f)
	fmt.Printf("Dialect:       %s\n", f.Format)
	fmt.Printf("Mission:       %s\n", hdr.Mission)
	fmt.Printf("Description:   %s\n", hdr.DataDescription)
	fmt.Printf("Start date:    %s\n", hdr.StartDate.Format("2006-01-02"))
	fmt.Printf("Revision date: %s\n", hdr.RevisionDate.Format("2006-01-02"))
	fmt.Printf("Interval:      %gs\n", hdr.DataInterval)
	fmt.Printf("Variables:     %d\n", hdr.TotalVariableCount)
	for i, v := range hdr.DependentVariables {
		fmt.Printf("  %2d  %-20s %-12s %s\n", i+1, v.Name, v.Units, v.Description)
	}
	fmt.Println(hdr.ContactInfo())
	return nil
}

func runTimes(c *cli.Context) error {
	f, err := openFile(c)
	if err != nil {
		return err
	}
	start, end, err := f.TimeRange()
	if err != nil {
		return err
	}
	fmt.Printf("start: %s\n", start.Format("2006-01-02 15:04:05"))
	fmt.Printf("end:   %s\n", end.Format("2006-01-02 15:04:05"))
	return nil
}

func runColumns(c *cli.Context) error {
	f, err := openFile(c)
	if err != nil {
		return err
	}
	cols, err := f.Columns(ames.SourceColumns, ames.CaseMode(c.String("case")))
	if err != nil {
		return err
	}
	for _, col := range cols {
		fmt.Println(col)
	}
	return nil
}

func runStats(c *cli.Context) error {
	f, err := openFile(c)
	if err != nil {
		return err
	}
	stats, err := f.ComputeStats()
	if err != nil {
		return err
	}
	fmt.Printf("records:  %d\n", stats.NumRecords)
	fmt.Printf("sampling: %s\n", stats.Sampling)
	fmt.Printf("first:    %s\n", stats.TimeOfFirst.Format("2006-01-02 15:04:05"))
	fmt.Printf("last:     %s\n", stats.TimeOfLast.Format("2006-01-02 15:04:05"))
	return nil
}
