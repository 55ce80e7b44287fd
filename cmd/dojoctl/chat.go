package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/entity"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/internal/repository/memory"
	"sales-assist-bff/internal/session"
	"sales-assist-bff/pkg/pushchannel"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const chatHelp = `Type what the client said and press enter. Commands:
  /stage <name>      set the journey stage (Discovery, Analysis, Decision)
  /accept            accept the suggested stage
  /good <n> /bad <n> rate the suggestion at entry n
  /retry             retry a failed analysis
  /new               start a new conversation
  /end success|fail  close the conversation
  /quit              leave`

var (
	sellerColor  = color.New(color.FgBlue, color.Bold)
	suggestColor = color.New(color.FgGreen)
	insightColor = color.New(color.FgMagenta)
	errorColor   = color.New(color.FgRed)
	faintColor   = color.New(color.Faint)
)

// chatPrinter renders controller events. Events arrive from the push channel
// goroutine as well as the input loop.
type chatPrinter struct {
	mu           sync.Mutex
	lastSequence int64
	lastEntries  int
	lastError    string
}

func (p *chatPrinter) Notify(ev session.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Type {
	case constant.DeskEventSessionPromoted:
		faintColor.Printf("session %s (was %s)\n", ev.SessionId, ev.PreviousId)
		return
	case constant.DeskEventSessionEnded:
		faintColor.Printf("session %s ended\n", ev.SessionId)
		p.lastEntries, p.lastSequence = 0, 0
		return
	}

	s := ev.Session
	if s == nil {
		return
	}
	if len(s.Entries) < p.lastEntries {
		p.lastEntries = 0
	}
	for i := p.lastEntries; i < len(s.Entries); i++ {
		e := s.Entries[i]
		if e.Optimistic {
			break
		}
		if e.Role != constant.ConversationRoleSeller {
			suggestColor.Printf("[%d] %s\n", i, e.Content)
		}
		p.lastEntries = i + 1
	}

	if s.LastError != "" && s.LastError != p.lastError {
		errorColor.Println(s.LastError)
	}
	p.lastError = s.LastError

	if s.Status == constant.SessionStatusAwaitingEnrichment && s.Progress > 0 {
		faintColor.Printf("analysis %d%%\n", s.Progress)
	}
	if s.Enrichment != nil && s.Enrichment.Sequence != p.lastSequence {
		p.lastSequence = s.Enrichment.Sequence
		printEnrichment(s.Enrichment, s.SuggestedStage)
	}
}

func printEnrichment(r *entity.EnrichmentResult, suggestedStage string) {
	dna := r.Modules.DnaClient
	insightColor.Printf("-- analysis (confidence %.0f%%) --\n", r.OverallConfidence)
	if dna.HolisticSummary != "" {
		fmt.Printf("  %s\n", dna.HolisticSummary)
	}
	if dna.MainMotivation != "" {
		fmt.Printf("  motivation: %s\n", dna.MainMotivation)
	}
	for _, lever := range dna.KeyLevers {
		fmt.Printf("  + %s\n", lever.Argument)
	}
	for _, flag := range dna.RedFlags {
		errorColor.Printf("  ! %s\n", flag)
	}
	tactical := r.Modules.TacticalIndicators
	if tactical.TemperatureLabel != "" {
		fmt.Printf("  temperature: %s (%.0f)\n", tactical.TemperatureLabel, tactical.PurchaseTemperature)
	}
	if suggestedStage != "" {
		insightColor.Printf("  suggested stage: %s (/accept)\n", suggestedStage)
	}
}

// readLines feeds stdin to a channel so the input loop can also watch for interrupts.
func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func chatCmd() *cobra.Command {
	var language, logFile string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Hold a practice conversation in the terminal",
		Long:  chatHelp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.NewIsolatedLogger(logFile)
			defer log.Sync()

			printer := &chatPrinter{}
			ctrl := session.NewController(
				session.Config{},
				newClient(),
				&session.PushOpener{Config: pushchannel.Config{BaseURL: wsURL}, Logger: log},
				memory.NewRecentSessionRepository(),
				printer,
				log,
			)
			defer ctrl.Close()

			ctrl.StartSession()
			faintColor.Println(chatHelp)

			ctx := cmd.Context()
			lines := readLines(os.Stdin)
			for {
				sellerColor.Print("> ")
				var line string
				select {
				case <-ctx.Done():
					fmt.Println()
					return nil
				case l, ok := <-lines:
					if !ok {
						return nil
					}
					line = strings.TrimSpace(l)
				}
				if line == "" {
					continue
				}
				if !strings.HasPrefix(line, "/") {
					if err := ctrl.SendMessage(ctx, line, "", language); err != nil && session.IsPrecondition(err) {
						errorColor.Println(err)
					}
					continue
				}

				name, arg, _ := strings.Cut(line[1:], " ")
				var err error
				switch name {
				case "quit", "q":
					return nil
				case "stage":
					err = ctrl.SetStage(arg)
				case "accept":
					err = ctrl.AcceptSuggestedStage()
				case "good", "bad":
					sentiment := constant.SentimentPositive
					if name == "bad" {
						sentiment = constant.SentimentNegative
					}
					idx, convErr := strconv.Atoi(arg)
					if convErr != nil {
						err = session.ErrInvalidEntry
						break
					}
					err = ctrl.AttachFeedback(ctx, idx, sentiment, "")
				case "retry":
					err = ctrl.RetryEnrichment(ctx)
				case "new":
					ctrl.StartSession()
				case "end":
					err = ctrl.EndSession(ctx, arg)
					if err == nil {
						ctrl.StartSession()
					}
				default:
					faintColor.Println(chatHelp)
				}
				if err != nil && session.IsPrecondition(err) {
					errorColor.Println(err)
				}
			}
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", constant.LanguagePolish, "conversation language (pl, en)")
	cmd.Flags().StringVar(&logFile, "log-file", "logs/dojoctl.log", "where the session log is written")
	return cmd
}
