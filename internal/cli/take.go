package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mbti-quiz-service/internal/app"
	"mbti-quiz-service/internal/domain"

	"github.com/spf13/cobra"
)

const takeHelp = "answer 1-5 (1 strongly disagree, 5 strongly agree), n next, p previous, f finish, q quit"

// NewTakeCmd runs one attempt in the terminal.
func NewTakeCmd(configPath *string) *cobra.Command {
	var tierName string
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take the questionnaire in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := domain.ParseTier(tierName)
			if err != nil {
				return fmt.Errorf("%w: %q", err, tierName)
			}
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			service, cleanup, err := buildService(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			engine := service.NewEngine()
			if err := engine.StartSession(cmd.Context(), tier); err != nil {
				return err
			}
			return runAttempt(cmd, service, engine)
		},
	}
	cmd.Flags().StringVar(&tierName, "tier", string(domain.TierBasic), "basic, standard or professional")
	return cmd
}

func runAttempt(cmd *cobra.Command, service *app.Service, engine *app.Engine) error {
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintln(out, takeHelp)

	for {
		progress := engine.Progress()
		current, ok := engine.Current()
		if !ok {
			fmt.Fprintln(out, "no statements available for this tier")
			return nil
		}
		fmt.Fprintf(out, "\n[%d/%d, %d answered] %s\n> ", progress.Cursor+1, progress.Total, progress.Answered, current.Text)

		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out, "\ninput closed, attempt discarded")
			return nil
		}

		switch input := strings.ToLower(strings.TrimSpace(in.Text())); input {
		case "n", "next":
			engine.Navigate(app.Next)
		case "p", "prev", "previous":
			engine.Navigate(app.Previous)
		case "q", "quit":
			fmt.Fprintln(out, "attempt discarded")
			return nil
		case "f", "finish":
			return finalize(cmd, service, engine)
		default:
			score, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintln(out, takeHelp)
				continue
			}
			if err := engine.RecordAnswer(current.ID, score); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			progress = engine.Progress()
			if progress.Answered == progress.Total {
				return finalize(cmd, service, engine)
			}
			engine.Navigate(app.Next)
		}
	}
}

func finalize(cmd *cobra.Command, service *app.Service, engine *app.Engine) error {
	result, err := engine.Finalize(cmd.Context())
	if err != nil {
		return err
	}
	report := domain.Report{Result: result}
	if d, ok := service.Describe(result.Type); ok {
		report.Description = &d
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(out io.Writer, report domain.Report) {
	r := report.Result
	fmt.Fprintf(out, "\nResult %s (%s tier, %s)\n", r.ID, r.Tier, r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "Your type: %s\n", r.Type)
	for _, d := range domain.Dimensions {
		first, second := d.Poles()
		a, b := r.Scores.Pair(d)
		fmt.Fprintf(out, "  %c %3d%%  |  %3d%% %c\n", first, a, b, second)
	}
	if report.Description != nil {
		printDescription(out, *report.Description)
	}
}

func printDescription(out io.Writer, d domain.TypeDescription) {
	fmt.Fprintf(out, "\n%s: %s\n%s\n\n%s\n", d.Type, d.Title, d.Subtitle, d.Description)
	printList(out, "Characteristics", d.Characteristics)
	printList(out, "Strengths", d.Strengths)
	printList(out, "Weaknesses", d.Weaknesses)
	printList(out, "Careers", d.Careers)
	printList(out, "Growth", d.Growth)
	printList(out, "In relationships", d.Relationships.Strengths)
	printList(out, "Relationship challenges", d.Relationships.Challenges)
	printList(out, "At work", d.WorkStyle.Preferences)
	printList(out, "Work challenges", d.WorkStyle.Challenges)
	printList(out, "Learns best with", d.LearningStyle.Preferences)
	printList(out, "Study strategies", d.LearningStyle.Strategies)
	printList(out, "Stress triggers", d.StressManagement.Triggers)
	printList(out, "Coping strategies", d.StressManagement.CopingStrategies)
	printList(out, "Communication strengths", d.Communication.Strengths)
	printList(out, "Communication challenges", d.Communication.Challenges)
	printList(out, "Communication tips", d.Communication.Tips)
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}
