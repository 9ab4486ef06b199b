// cmd/ctdclient/main.go
package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/thben/clearthedeck-client/internal/config"
	"github.com/thben/clearthedeck-client/internal/metrics"
	"github.com/thben/clearthedeck-client/internal/models"
	"github.com/thben/clearthedeck-client/internal/rules"
	"github.com/thben/clearthedeck-client/internal/state"
	"github.com/thben/clearthedeck-client/internal/transport"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)

	m := metrics.New("ctdclient")
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := m.Register(reg); err != nil {
			logger.WithError(err).Fatal("metrics registration failed")
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			logger.Infof("metrics on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.WithError(err).Error("metrics server exited")
			}
		}()
	}

	sync := state.New(nil, logger, renderView)

	mgr := transport.NewManager(transport.Options{
		URL:       cfg.ServerURL,
		BaseDelay: cfg.BaseDelay,
		CapDelay:  cfg.CapDelay,
		Logger:    logger,
		Metrics:   m,
		OnMessage: sync.HandleMessage,
		OnStateChange: func(st transport.ConnectionState) {
			switch st.Status {
			case transport.StatusOpen:
				fmt.Println("* connected")
			case transport.StatusReconnecting:
				fmt.Printf("* connection lost, retrying (attempt %d)\n", st.Attempt)
			}
		},
	})
	sync.SetSender(mgr)

	if err := mgr.Connect(); err != nil {
		logger.WithError(err).Fatal("connect failed")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		runPrompt(sync, cfg.PlayerName)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case <-done:
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
	mgr.Close()
}

const helpText = `commands:
  create <name>          create a room
  join <code> <name>     join a room by code
  start                  start the game (host)
  play <id> [id...]      play cards by id
  flip <id>              flip a face-down table card
  next                   start the next round (host)
  leave                  leave the room
  hand                   show your sorted hand
  help                   this text
  quit                   exit`

// runPrompt reads commands from stdin until EOF or quit.
func runPrompt(sync *state.Synchronizer, defaultName string) {
	fmt.Println(helpText)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "create":
			name := defaultName
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" {
				fmt.Println("usage: create <name>")
				continue
			}
			sync.CreateRoom(name)
		case "join":
			if len(args) < 1 {
				fmt.Println("usage: join <code> <name>")
				continue
			}
			name := defaultName
			if len(args) > 1 {
				name = args[1]
			}
			sync.JoinRoom(args[0], name)
		case "start":
			sync.StartGame()
		case "play":
			if len(args) == 0 {
				fmt.Println("usage: play <id> [id...]")
				continue
			}
			playSelection(sync, args)
		case "flip":
			if len(args) != 1 {
				fmt.Println("usage: flip <id>")
				continue
			}
			sync.FlipFaceDown(args[0])
		case "next":
			sync.StartNextRound()
		case "leave":
			sync.LeaveRoom()
		case "hand":
			printHand(sync.View())
		case "help":
			fmt.Println(helpText)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q; try help\n", cmd)
		}
	}
}

// playSelection checks the play locally before submitting, so obvious
// mistakes get instant feedback instead of a server round trip.
func playSelection(sync *state.Synchronizer, ids []string) {
	v := sync.View()
	byID := make(map[string]models.Card)
	for _, c := range v.Hand {
		byID[c.ID] = c
	}
	for _, c := range v.TableUp {
		byID[c.ID] = c
	}
	for _, c := range v.TableDown {
		byID[c.ID] = c
	}

	selected := make([]models.Card, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			fmt.Printf("no card with id %s\n", id)
			return
		}
		selected = append(selected, c)
	}

	res := sync.ValidatePlay(selected, false)
	if !res.Valid {
		fmt.Println(res.Reason)
		return
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	}
	sync.PlayCards(ids, false)
}

func printHand(v state.View) {
	if len(v.Hand) == 0 {
		fmt.Println("hand empty")
	} else {
		for _, c := range rules.SortCards(v.Hand) {
			fmt.Printf("  %-4s %s\n", c.ShortName(), c.ID)
		}
	}
	if len(v.TableUp) > 0 {
		fmt.Print("table up:")
		for _, c := range v.TableUp {
			fmt.Printf(" %s(%s)", c.ShortName(), c.ID)
		}
		fmt.Println()
	}
	if n := len(v.TableDown); n > 0 {
		fmt.Printf("face down: %s\n", models.FormatCardCount(n))
	}
}

// renderView prints a one-line digest after every state change.
func renderView(v state.View) {
	if v.ErrorText != "" {
		fmt.Printf("! %s\n", v.ErrorText)
		return
	}
	if v.RoundResult != nil {
		fmt.Printf("round %d over, %s wins\n", v.RoundResult.RoundNumber, v.RoundResult.Winner.Name)
		for _, p := range v.RoundResult.Players {
			fmt.Printf("  %-12s round %3d  total %3d\n", p.Name, p.RoundScore, p.TotalScore)
		}
		return
	}
	if v.Game != nil {
		turn := v.CurrentTurnPlayerID
		if v.IsPlayerTurn {
			turn = "you"
		}
		top := "empty"
		if n := len(v.CenterPile); n > 0 {
			top = v.CenterPile[n-1].ShortName()
		}
		fmt.Printf("[%s] turn: %s  pile top: %s  hand: %s\n",
			v.RoomCode, turn, top, models.FormatCardCount(len(v.Hand)))
		return
	}
	if v.Room != nil {
		names := make([]string, 0, len(v.Room.Players))
		for _, p := range v.Room.Players {
			names = append(names, p.Name)
		}
		fmt.Printf("[%s] players: %s\n", v.RoomCode, strings.Join(names, ", "))
	}
}
