package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"placement-workers/internal/matching"
	"placement-workers/internal/models"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank students against a requirement",
	Long:  "Reads a JSON array of students and ranks them against a requirement given either by --skills/--language or by a posting JSON file. Only students scoring at least 0.5 are printed.",
	RunE:  runRank,
}

var (
	rankStudents  string
	rankPosting   string
	rankSkills    string
	rankLanguage  string
	rankSoftBonus string
	rankOutput    string
)

func init() {
	rankCmd.Flags().StringVarP(&rankStudents, "students", "s", "", "Path to a JSON array of students (required)")
	rankCmd.Flags().StringVarP(&rankPosting, "posting", "p", "", "Path to a posting JSON file")
	rankCmd.Flags().StringVar(&rankSkills, "skills", "", "Comma-separated required skills")
	rankCmd.Flags().StringVar(&rankLanguage, "language", "", "Required Japanese level (NONE, N5..N1)")
	rankCmd.Flags().StringVar(&rankSoftBonus, "soft-bonus", "", "Level earning the soft bonus when no language is required")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Write the ranking to this file instead of stdout")

	if err := rankCmd.MarkFlagRequired("students"); err != nil {
		panic(fmt.Sprintf("failed to mark students flag as required: %v", err))
	}
	rankCmd.MarkFlagsMutuallyExclusive("posting", "skills")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	students, err := readStudents(rankStudents)
	if err != nil {
		return err
	}

	req, err := rankRequirement()
	if err != nil {
		return err
	}

	engine := matching.NewEngine(matching.WithSoftBonusLevel(matching.Level(rankSoftBonus)))
	results := engine.Rank(req, models.Profiles(students))
	if results == nil {
		results = []matching.MatchResult{}
	}

	out := cmd.OutOrStdout()
	if rankOutput != "" {
		f, err := os.Create(rankOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", rankOutput, err)
		}
		defer f.Close()
		out = f
	}
	return writeJSON(out, results)
}

func rankRequirement() (matching.RequirementSpec, error) {
	if rankPosting == "" {
		return matching.NormalizeRequirement(matching.RawRequirement{
			Skills:   matching.SkillsFromText(rankSkills),
			Language: matching.Level(rankLanguage),
		}), nil
	}

	data, err := os.ReadFile(rankPosting)
	if err != nil {
		return matching.RequirementSpec{}, fmt.Errorf("failed to read posting file %s: %w", rankPosting, err)
	}
	var p models.Posting
	if err := json.Unmarshal(data, &p); err != nil {
		return matching.RequirementSpec{}, fmt.Errorf("failed to unmarshal posting JSON: %w", err)
	}
	req, ok := p.Requirement()
	if !ok {
		return matching.RequirementSpec{}, fmt.Errorf("posting %q is a %s posting and cannot be ranked", p.Title, p.Type().Label())
	}
	return req, nil
}

func readStudents(path string) ([]models.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read students file %s: %w", path, err)
	}
	var students []models.Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("failed to unmarshal students JSON: %w", err)
	}
	return students, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
