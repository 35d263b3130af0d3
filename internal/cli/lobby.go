package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/hub"
)

func newLobbyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lobby <join-code>",
		Short: "Join a multiplayer lobby and chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			joinCode := strings.ToUpper(args[0])

			app, err := buildApp(configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			auth, err := app.store.Auth(ctx)
			if err != nil {
				return err
			}

			disconnected := make(chan error, 1)
			client := hub.New(app.cfg.Hub.URL, app.store, hub.Handlers{
				OnCurrentPlayers: func(players []domain.LobbyPlayer) {
					names := make([]string, 0, len(players))
					for _, p := range players {
						names = append(names, p.Username)
					}
					fmt.Printf("In the lobby: %s\n", strings.Join(names, ", "))
				},
				OnPlayerJoined: func(p domain.LobbyPlayer) {
					fmt.Printf("* %s joined\n", p.Username)
				},
				OnPlayerLeft: func(userID int) {
					fmt.Printf("* player %d left\n", userID)
				},
				OnMessage: func(m domain.LobbyMessage) {
					fmt.Printf("[%s] %s\n", m.Username, m.Message)
				},
				OnError: func(message string) {
					fmt.Printf("! %s\n", message)
				},
				OnReconnected: func() {
					fmt.Println("* reconnected")
				},
				OnDisconnect: func(err error) {
					disconnected <- err
				},
			}, hub.WithLogger(app.log))

			if err := client.Connect(ctx); err != nil {
				return fmt.Errorf("connect to game lobby: %w", err)
			}
			defer client.Close()

			if err := client.JoinLobby(joinCode, auth.UserID); err != nil {
				return err
			}
			fmt.Printf("Joined lobby %s. Type to chat, /leave to exit.\n", joinCode)

			lines := readLines(ctx.Done())
			for {
				select {
				case line, ok := <-lines:
					if !ok || strings.TrimSpace(line) == "/leave" {
						_ = client.LeaveLobby(joinCode)
						return nil
					}
					if strings.TrimSpace(line) == "" {
						continue
					}
					if err := client.SendMessage(joinCode, line); err != nil {
						return err
					}
				case err := <-disconnected:
					return fmt.Errorf("lost connection to game lobby: %w", err)
				case <-ctx.Done():
					_ = client.LeaveLobby(joinCode)
					return nil
				}
			}
		},
	}
}
