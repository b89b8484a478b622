package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [utterance]",
	Short: "Interpret and execute one request",
	Long: `Interprets a single plain-language request and executes it. With no
arguments, reads requests line by line from stdin so a follow-up prompt
("How many milk?") can be answered.`,
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) > 0 {
		reply, err := a.service.Ask(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(reply.Message)
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		utterance := strings.TrimSpace(scanner.Text())
		if utterance == "" || utterance == "exit" || utterance == "quit" {
			break
		}
		reply, err := a.service.Ask(utterance)
		if err != nil {
			return err
		}
		fmt.Println(reply.Message)
		fmt.Print("> ")
	}
	return scanner.Err()
}
