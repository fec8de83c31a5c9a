package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/cbodonnell/mafia/pkg/client/console"
	"github.com/cbodonnell/mafia/pkg/client/network"
	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/queue"
	"github.com/cbodonnell/mafia/pkg/version"
)

func main() {
	serverAddr := flag.String("server", fmt.Sprintf("ws://%s:%d", network.DefaultServerHostname, network.DefaultServerWSPort), "WebSocket server address")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stderr, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)

	log.Info("Starting mafia client version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	serverMessageQueue := queue.NewInMemoryQueue(queue.QueueBufferSize)
	networkManager := network.NewNetworkManager(*serverAddr, serverMessageQueue)
	if err := networkManager.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start network manager: %v", err))
	}
	defer networkManager.Stop()

	go printServerMessages(ctx, serverMessageQueue)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println(console.Usage)
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-networkManager.ClientErr():
			log.Error("Connection lost: %v", err)
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			cmd, err := console.ParseCommand(line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if cmd.Kind == console.CommandQuit {
				return
			}
			if err := runCommand(ctx, networkManager, cmd); err != nil {
				log.Error("Failed to send command: %v", err)
			}
		}
	}
}

func runCommand(ctx context.Context, m *network.NetworkManager, cmd console.Command) error {
	switch cmd.Kind {
	case console.CommandVote:
		return m.CastVote(ctx, cmd.VoteKind, cmd.VoterID, cmd.TargetID)
	case console.CommandAdvance:
		return m.AdvancePhase(ctx)
	case console.CommandAckAnnouncement:
		return m.AcknowledgeAnnouncement(ctx)
	case console.CommandAckReveal:
		return m.AcknowledgeReveal(ctx)
	case console.CommandSetup:
		return m.ReturnToSetup(ctx)
	case console.CommandHelp:
		fmt.Println(console.Usage)
	}
	return nil
}

// printServerMessages drains pushes queued by the network manager.
func printServerMessages(ctx context.Context, q queue.Queue) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			items, err := q.ReadAllMessages()
			if err != nil {
				log.Error("Failed to read server messages: %v", err)
				continue
			}
			for _, item := range items {
				msg, ok := item.(*messages.Message)
				if !ok {
					log.Error("Unexpected item in server message queue: %T", item)
					continue
				}
				lines, err := console.Render(msg)
				if err != nil {
					log.Error("Failed to render message: %v", err)
					continue
				}
				for _, line := range lines {
					fmt.Println(line)
				}
			}
		}
	}
}
