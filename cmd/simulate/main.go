// Command simulate drives one agent through a small scripted run: create it,
// take on debt, then advance its clock, printing the resulting event count
// and final state as JSON. It exists to exercise the engine package end to
// end from outside the test suite, the same role cmd/game's main.go played
// for its HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/command"
	domainengine "github.com/suds/laundromat/internal/engine/domain/engine"
	"github.com/suds/laundromat/internal/engine/domain/journal"
	"github.com/suds/laundromat/internal/engine/engine"
	"github.com/suds/laundromat/internal/platform/config"
)

// simConfig is parsed from the environment (caarlos0/env/v11), with flags
// available to override the agent id and day count for a one-off run.
type simConfig struct {
	JournalBackend string `env:"JOURNAL_BACKEND" envDefault:"memory"`
	JournalPath    string `env:"JOURNAL_PATH" envDefault:"simulate.jsonl"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

var (
	agentID = flag.String("agent", "agent-demo", "agent id to simulate")
	days    = flag.Int("days", 35, "number of days to advance after setup")
)

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg simConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("Error: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	eng, closeJournal, err := buildEngine(cfg, logger)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer closeJournal()

	if err := run(ctx, eng, *agentID, *days); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func buildEngine(cfg simConfig, logger *slog.Logger) (*engine.Engine, func(), error) {
	registries, err := domainengine.BuildRegistries()
	if err != nil {
		return nil, nil, fmt.Errorf("build registries: %w", err)
	}

	var j engine.Journal
	closeFn := func() {}
	switch cfg.JournalBackend {
	case "file":
		f, err := journal.OpenFile(cfg.JournalPath, registries.Events)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal file: %w", err)
		}
		j = f
		closeFn = func() {
			if cerr := f.Close(); cerr != nil {
				logger.Error("close journal file", "error", cerr)
			}
		}
	default:
		j = journal.NewMemory(registries.Events)
	}

	eng, err := engine.New(engine.Config{Journal: j, Logger: logger})
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("new engine: %w", err)
	}
	return eng, closeFn, nil
}

func run(ctx context.Context, eng *engine.Engine, id string, days int) error {
	createPayload, err := json.Marshal(agent.CreateAgentPayload{
		Name:               id,
		InitialCash:        25000,
		InitialCreditLimit: 10000,
	})
	if err != nil {
		return fmt.Errorf("marshal CreateAgentPayload: %w", err)
	}
	result, err := eng.ExecuteCommand(ctx, id, command.Command{
		Type:        agent.CommandCreateAgent,
		PayloadJSON: createPayload,
	})
	if err != nil {
		return fmt.Errorf("execute CREATE_AGENT: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("CREATE_AGENT rejected: %s: %s", result.ErrorKind, result.Message)
	}

	loanPayload, err := json.Marshal(agent.TakeLoanPayload{Kind: agent.LoanKindEquipment, Principal: 15000})
	if err != nil {
		return fmt.Errorf("marshal TakeLoanPayload: %w", err)
	}
	result, err = eng.ExecuteCommand(ctx, id, command.Command{
		Type:        agent.CommandTakeLoan,
		PayloadJSON: loanPayload,
	})
	if err != nil {
		return fmt.Errorf("execute TAKE_LOAN: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("TAKE_LOAN rejected: %s: %s", result.ErrorKind, result.Message)
	}

	advance, err := eng.AdvanceTime(ctx, id, days)
	if err != nil {
		return fmt.Errorf("advance time: %w", err)
	}

	state, err := eng.GetCurrentState(ctx, id)
	if err != nil {
		return fmt.Errorf("get current state: %w", err)
	}

	out, err := json.MarshalIndent(struct {
		AgentID      string      `json:"agent_id"`
		DaysAdvanced int         `json:"days_advanced"`
		EventCount   int         `json:"event_count"`
		State        agent.State `json:"state"`
	}{AgentID: id, DaysAdvanced: days, EventCount: len(advance.Events), State: state}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
