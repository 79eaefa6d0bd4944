// file: cmd/backup.go
// version: 1.0.0
// guid: 8e9f0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/jdfalk/pokedex/internal/backup"
	"github.com/jdfalk/pokedex/internal/config"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot and restore the local store",
	Long: `Snapshot the cache, history and favorites into a compressed archive, or load
one back. Archives are backend independent, so a Pebble store can be restored
into SQLite and the other way round.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a new backup archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := backupConfig(cmd)
		sub, closer, err := openSubstrate()
		if err != nil {
			return err
		}
		defer closer()

		info, err := backup.CreateBackup(sub, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s (%d entries)\n", info.Path, info.Entries)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup archives, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := backup.ListBackups(backupConfig(cmd).BackupDir)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No backups found")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tSIZE\tCREATED")
		for _, b := range backups {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Filename, b.Size, b.CreatedAt.Local().Format(time.DateTime))
		}
		return tw.Flush()
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Load a backup archive into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replace, _ := cmd.Flags().GetBool("replace")
		noVerify, _ := cmd.Flags().GetBool("no-verify")

		sub, closer, err := openSubstrate()
		if err != nil {
			return err
		}
		defer closer()

		n, err := backup.RestoreBackup(sub, args[0], replace, !noVerify)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d entries\n", n)
		return nil
	},
}

func init() {
	backupCmd.PersistentFlags().String("dir", "", "backup directory (default: backups/ next to the database)")
	backupCreateCmd.Flags().Int("keep", backup.DefaultBackupConfig().MaxBackups, "number of archives to keep, 0 keeps all")
	backupRestoreCmd.Flags().Bool("replace", false, "wipe the store before restoring")
	backupRestoreCmd.Flags().Bool("no-verify", false, "skip the checksum check")

	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)
}

func backupConfig(cmd *cobra.Command) backup.BackupConfig {
	cfg := backup.DefaultBackupConfig()
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.BackupDir = dir
	} else {
		cfg.BackupDir = filepath.Join(filepath.Dir(config.AppConfig.DatabasePath), "backups")
	}
	if cmd.Flags().Lookup("keep") != nil {
		cfg.MaxBackups, _ = cmd.Flags().GetInt("keep")
	}
	return cfg
}
