package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/movierate/internal/config"
	"github.com/user/movierate/internal/repository"
	"github.com/user/movierate/internal/service"
)

var (
	catalogPath string
	dbURL       string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "建表并导入片库（已有电影时跳过）",
	RunE:  runSeed,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "只解析片库文件，不连接数据库",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := service.LoadCatalogFile(catalogPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "片库共 %d 部电影\n", len(catalog))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "片库 YAML 文件路径，默认使用内置片库")
	rootCmd.Flags().StringVar(&dbURL, "database-url", "", "数据库连接串，默认读取环境变量")
	rootCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "导入超时时间")
	rootCmd.AddCommand(validateCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}
	cfg := config.Load()
	if dbURL == "" {
		dbURL = cfg.DatabaseURL
	}

	catalog, err := service.LoadCatalogFile(catalogPath)
	if err != nil {
		return err
	}

	db, err := repository.InitDB(dbURL, repository.Options{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := service.NewBootstrap(db, catalog).Run(ctx)
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Fprintln(cmd.OutOrStdout(), "已存在电影数据，未做任何写入")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "导入 %d 部电影，新建 %d 个类型\n", result.MoviesCreated, result.GenresCreated)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
