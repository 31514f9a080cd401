package msg

import (
	"github.com/spf13/cobra"
)

var MsgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Send messages to the assistant",
}

func init() {
	MsgCmd.AddCommand(sendCmd)
}
