package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/profile"
	"github.com/spigell/job-monitor/internal/storage/postgres"
)

var candidateCmd = &cobra.Command{
	Use:   "candidate",
	Short: "Manage candidate profiles",
}

var candidateRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a candidate or reactivate an existing one",
	Run: func(cmd *cobra.Command, _ []string) {
		username, _ := cmd.Flags().GetString("username")
		withProfiles(cmd, false, func(ctx context.Context, svc *profile.Service, id domain.CandidateID) (*domain.Candidate, error) {
			return svc.Register(ctx, id, username)
		})
	},
}

var candidateResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Extract the profile from a resume (file or stdin)",
	Run: func(cmd *cobra.Command, _ []string) {
		file, _ := cmd.Flags().GetString("file")
		text, err := readInput(cmd.InOrStdin(), file)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("reading the resume: %w", err))
		}
		withProfiles(cmd, true, func(ctx context.Context, svc *profile.Service, id domain.CandidateID) (*domain.Candidate, error) {
			return svc.UpdateResume(ctx, id, text)
		})
	},
}

var candidateFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Set a filter dimension to STRICT or SOFT",
	Run: func(cmd *cobra.Command, _ []string) {
		rawDim, _ := cmd.Flags().GetString("dimension")
		dim, err := domain.ParseFilterDimension(rawDim)
		cobra.CheckErr(err)

		rawMode, _ := cmd.Flags().GetString("mode")
		if rawMode == "" {
			rawMode, err = promptMode(dim)
			cobra.CheckErr(err)
		}
		mode, err := domain.ParseFilterMode(rawMode)
		cobra.CheckErr(err)

		withProfiles(cmd, false, func(ctx context.Context, svc *profile.Service, id domain.CandidateID) (*domain.Candidate, error) {
			return svc.SetFilter(ctx, id, dim, mode)
		})
	},
}

var candidateExperienceCmd = &cobra.Command{
	Use:   "experience",
	Short: "Set or clear the minimum vacancy experience in months",
	Run: func(cmd *cobra.Command, _ []string) {
		var months *int
		if clearPref, _ := cmd.Flags().GetBool("clear"); !clearPref {
			m, _ := cmd.Flags().GetInt("months")
			months = &m
		}
		withProfiles(cmd, false, func(ctx context.Context, svc *profile.Service, id domain.CandidateID) (*domain.Candidate, error) {
			return svc.SetExperiencePreference(ctx, id, months)
		})
	},
}

var candidateDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Stop notifications for a candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		withProfiles(cmd, false, func(ctx context.Context, svc *profile.Service, id domain.CandidateID) (*domain.Candidate, error) {
			if err := svc.Deactivate(ctx, id); err != nil {
				return nil, err
			}
			return svc.Get(ctx, id)
		})
	},
}

var candidateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a candidate profile",
	Run: func(cmd *cobra.Command, _ []string) {
		withProfiles(cmd, false, func(ctx context.Context, svc *profile.Service, id domain.CandidateID) (*domain.Candidate, error) {
			return svc.Get(ctx, id)
		})
	},
}

func init() {
	rootCmd.AddCommand(candidateCmd)
	candidateCmd.PersistentFlags().String("id", "", "candidate id")
	candidateCmd.MarkPersistentFlagRequired("id")

	candidateRegisterCmd.Flags().String("username", "", "display name of the candidate")
	candidateResumeCmd.Flags().StringP("file", "f", "", "file with the resume text (default is stdin)")
	candidateFilterCmd.Flags().String("dimension", "", "experience, salary or work_format")
	candidateFilterCmd.Flags().String("mode", "", "STRICT or SOFT (asked interactively when omitted)")
	candidateFilterCmd.MarkFlagRequired("dimension")
	candidateExperienceCmd.Flags().Int("months", 0, "minimum experience a vacancy must require")
	candidateExperienceCmd.Flags().Bool("clear", false, "remove the minimum experience preference")

	candidateCmd.AddCommand(
		candidateRegisterCmd,
		candidateResumeCmd,
		candidateFilterCmd,
		candidateExperienceCmd,
		candidateDeactivateCmd,
		candidateShowCmd,
	)
}

type profileAction func(ctx context.Context, svc *profile.Service, id domain.CandidateID) (*domain.Candidate, error)

// withProfiles opens the store, runs action and prints the resulting profile.
// The extractor is only built for commands that read resumes.
func withProfiles(cmd *cobra.Command, needsExtractor bool, action profileAction) {
	ctx := context.Background()
	logger, config := mustSetup()

	rawID, _ := cmd.Flags().GetString("id")
	id, err := domain.ParseCandidateID(rawID)
	if err != nil {
		logger.Fatal("invalid candidate id", zap.Error(err))
	}

	pool, err := openDatabase(ctx, config.Database)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer pool.Close()

	var extractor profile.ResumeExtractor
	if needsExtractor {
		e, err := newExtractor(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("building the extractor", zap.Error(err))
		}
		extractor = e
	}

	svc := profile.NewService(postgres.NewStore(pool).Units().Candidate, extractor, logger)

	c, err := action(ctx, svc, id)
	if err != nil {
		logger.Fatal("candidate command failed", zap.Stringer("candidate_id", id), zap.Error(err))
	}

	printCandidate(cmd.OutOrStdout(), c)
}

func promptMode(dim domain.FilterDimension) (string, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Filter mode for %s", dim),
		Items: []string{string(domain.FilterSoft), string(domain.FilterStrict)},
	}
	_, mode, err := prompt.Run()
	return mode, err
}

func printCandidate(w io.Writer, c *domain.Candidate) {
	fmt.Fprintf(w, "id:              %s\n", c.ID)
	if c.Username != "" {
		fmt.Fprintf(w, "username:        %s\n", c.Username)
	}
	fmt.Fprintf(w, "active:          %t\n", c.Active)
	fmt.Fprintf(w, "specializations: %s\n", strings.Join(c.Specializations.Strings(), ", "))
	fmt.Fprintf(w, "languages:       %s\n", strings.Join(c.Languages.Strings(), ", "))
	if c.TechStack != nil {
		fmt.Fprintf(w, "tech stack:      %s\n", strings.Join(c.TechStack.Strings(), ", "))
	}
	fmt.Fprintf(w, "experience:      %s (%s)\n", optionalMonths(c.ExperienceMonths), c.ExperienceMode)
	if c.ExperiencePreference != nil {
		fmt.Fprintf(w, "min experience:  %s\n", optionalMonths(c.ExperiencePreference))
	}
	salary := "-"
	if c.DesiredSalary != nil {
		salary = c.DesiredSalary.String()
	}
	fmt.Fprintf(w, "salary:          %s (%s)\n", salary, c.SalaryMode)
	format := "-"
	if c.DesiredWorkFormat != nil {
		format = string(*c.DesiredWorkFormat)
	}
	fmt.Fprintf(w, "work format:     %s (%s)\n", format, c.WorkFormatMode)
}

func optionalMonths(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d months", *v)
}
