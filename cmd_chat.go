package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/tui"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the approval assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			n := tui.NewNotifier()
			s := service.NewChatSession(service.EchoResponder{}, cfg.ChatSession(), service.WithOnChange(n.Notify))
			defer s.Close()
			defer n.Close()

			p := tea.NewProgram(tui.NewChatModel(s, n), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}
