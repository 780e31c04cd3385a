package main

import (
	"os"

	"github.com/spf13/cobra"
	"savedatamgr/pkg/ui"
)

var replaceCmd = &cobra.Command{
	Use:   "replace <checkpoint>",
	Short: "Replace the live savedata with a checkpoint",
	Long: `Overlay the named checkpoint onto the live savedata directory.

The current savedata is backed up silently first. Files present only in the
live directory are kept.`,
	Example: `  savedatamgr replace ep3
  savedatamgr replace ep3 --no-animation`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		_, err = a.manager.Replace(args[0], a.observer())
		ui.ReportReplace(os.Stdout, args[0], err)
		return reported(err)
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the live savedata",
	Long: `Copy the live savedata directory to a sibling named
<directory>-YYYYMMDD-HHMMSS.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		path, err := a.manager.Backup(false, a.observer())
		ui.ReportBackup(os.Stdout, path, err)
		return reported(err)
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover <backup>",
	Short: "Restore the live savedata from a backup",
	Long: `Overlay a backup onto the live savedata directory.

The backup may be given as a name from 'savedatamgr list backups' or as a
path. The current savedata is backed up silently first.`,
	Example: `  savedatamgr recover WomanCommunication-20240315-080000
  savedatamgr recover /path/to/WomanCommunication-20240315-080000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		path := a.manager.ResolveBackup(args[0])
		_, err = a.manager.Recover(path, a.observer())
		ui.ReportRecover(os.Stdout, path, err)
		return reported(err)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List checkpoints or backups",
}

var listCheckpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "List available checkpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		names, err := a.manager.ListCheckpoints()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			ui.PrintWarning(os.Stdout, "No checkpoints found! Please ensure checkpoints are in the './checkpoints' directory.")
			return nil
		}

		ui.PrintList(os.Stdout, "Available checkpoints:", names)
		return nil
	},
}

var listBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backups, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		backups, err := a.manager.ListBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			ui.PrintWarning(os.Stdout, "No backups found!")
			return nil
		}

		items := make([]string, len(backups))
		for i, b := range backups {
			items[i] = ui.BackupLabel(b)
		}
		ui.PrintList(os.Stdout, "Available backups:", items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listCheckpointsCmd)
	listCmd.AddCommand(listBackupsCmd)
}
