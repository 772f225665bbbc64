package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saiyolab/lpengine/internal/compose"
	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/settings"
)

var (
	renderCompanyFile string
	renderJobsFile    string
	renderLPFile      string
	renderRecruitFile string
	renderLayoutStyle string
	renderOutput      string
	renderBodyOnly    bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Compose a page from local JSON files",
	Long: `Compose an LP or recruit page offline from settings and entity JSON files.
Pass --lp-settings for a landing page or --recruit-settings for a recruit
page. With both, the LP is composed and inherits unset fields from the
recruit settings, the same resolution the server applies. The composed HTML
goes to stdout or --out.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderCompanyFile, "company", "", "Company JSON file")
	renderCmd.Flags().StringVar(&renderJobsFile, "jobs", "", "Jobs JSON file (array)")
	renderCmd.Flags().StringVar(&renderLPFile, "lp-settings", "", "LP settings JSON file")
	renderCmd.Flags().StringVar(&renderRecruitFile, "recruit-settings", "", "Recruit settings JSON file")
	renderCmd.Flags().StringVar(&renderLayoutStyle, "layout-style", "", "Layout style override (modern, trust, casual, elegant)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output file (default stdout)")
	renderCmd.Flags().BoolVar(&renderBodyOnly, "body-only", false, "Emit the sections without the document shell")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	if renderLPFile == "" && renderRecruitFile == "" {
		return fmt.Errorf("--lp-settings or --recruit-settings is required")
	}

	var company *entity.Company
	if renderCompanyFile != "" {
		company = &entity.Company{}
		if err := readJSONFile(renderCompanyFile, company); err != nil {
			return err
		}
	}

	var jobs []entity.Job
	if renderJobsFile != "" {
		if err := readJSONFile(renderJobsFile, &jobs); err != nil {
			return err
		}
	}

	var cfg *settings.EffectiveConfig
	if renderLPFile != "" {
		var lp settings.LPSettings
		if err := readJSONFile(renderLPFile, &lp); err != nil {
			return err
		}
		var rs *settings.RecruitSettings
		if renderRecruitFile != "" {
			rs = &settings.RecruitSettings{}
			if err := readJSONFile(renderRecruitFile, rs); err != nil {
				return err
			}
		}
		cfg = settings.ResolveLP(&lp, rs, renderLayoutStyle)
	} else {
		var rs settings.RecruitSettings
		if err := readJSONFile(renderRecruitFile, &rs); err != nil {
			return err
		}
		settings.EnsureCustomSectionIDs(&rs)
		cfg = settings.ResolveRecruit(&rs, renderLayoutStyle)
	}

	html := compose.New().Compose(compose.Input{
		Company: company,
		Jobs:    jobs,
		Config:  cfg,
	}, compose.Options{
		FullDocument: !renderBodyOnly,
		Now:          time.Now(),
	})

	if renderOutput == "" {
		fmt.Println(html)
		return nil
	}
	if err := os.WriteFile(renderOutput, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(html), renderOutput)
	return nil
}

func readJSONFile(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
