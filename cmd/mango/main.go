// mango — CLI поверх SDK: телефонная аутентификация, профиль, выход.
//
// Каждая подкоманда — одна операция репозитория; результат печатается
// в stdout, классифицированная ошибка — в stderr с ненулевым кодом выхода.
package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/worldproger/mango-go/internal/api"
	"github.com/worldproger/mango-go/internal/clients"
	"github.com/worldproger/mango-go/internal/config"
	"github.com/worldproger/mango-go/internal/creds"
	"github.com/worldproger/mango-go/pkg/apierr"
	"github.com/worldproger/mango-go/pkg/result"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg *config.Config
	cl  *clients.Clients
}

func newRootCommand() *cobra.Command {
	var configPath string
	a := &app{}

	root := &cobra.Command{
		Use:           "mango",
		Short:         "Клиент Mango API: аутентификация по номеру телефона и профиль",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			log := setupLogger(cfg.Env)
			slog.SetDefault(log)

			store, err := buildStore(cfg, log)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.cl = clients.New(cfg, store, log)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		newSendCodeCommand(a),
		newVerifyCommand(a),
		newRegisterCommand(a),
		newProfileCommand(a),
		newUpdateCommand(a),
		newLogoutCommand(a),
		newStatusCommand(a),
	)

	return root
}

// buildStore выбирает хранилище сессии: зашифрованный файл при заданном пути,
// иначе — память процесса (сессия не переживёт завершение команды).
func buildStore(cfg *config.Config, log *slog.Logger) (creds.Store, error) {
	if cfg.Creds.Path == "" {
		log.Warn("creds_path_empty_using_memory_store")
		return creds.NewMemoryStore(), nil
	}

	path := cfg.Creds.Path
	if dir, err := os.UserHomeDir(); err == nil && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	return creds.NewFileStore(path, []byte(cfg.Creds.Secret))
}

func newSendCodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send-code <phone>",
		Short: "Запросить код подтверждения на номер",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(a.cl.Auth.SendCode(cmd.Context(), args[0]))
		},
	}
}

func newVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <phone> <code>",
		Short: "Проверить код; при успехе устанавливается сессия",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.cl.Auth.VerifyCode(cmd.Context(), args[0], args[1])

			return reportWith(res, func(exists bool) any {
				return map[string]bool{"is_user_exists": exists}
			})
		},
	}
}

func newRegisterCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <phone> <name> <username>",
		Short: "Зарегистрировать аккаунт (выдаёт сессию)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(a.cl.Auth.Register(cmd.Context(), args[0], args[1], args[2]))
		},
	}
}

func newProfileCommand(a *app) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Показать профиль текущего пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(a); err != nil {
				return err
			}

			if cached {
				return reportJSON(a.cl.Users.UserCached(cmd.Context()))
			}

			return reportJSON(a.cl.Users.User(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "сначала пробовать кэш транспорта")

	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var (
		name, username, birthday, city string
		instagram, vk, status          string
		avatarPath                     string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Частично обновить профиль (отправляются только заданные флаги)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(a); err != nil {
				return err
			}

			in := api.UpdateMeInput{
				Name:      flagValue(cmd, "name", name),
				Username:  flagValue(cmd, "username", username),
				Birthday:  flagValue(cmd, "birthday", birthday),
				City:      flagValue(cmd, "city", city),
				Instagram: flagValue(cmd, "instagram", instagram),
				VK:        flagValue(cmd, "vk", vk),
				Status:    flagValue(cmd, "status", status),
			}

			if avatarPath != "" {
				raw, err := os.ReadFile(avatarPath)
				if err != nil {
					return fmt.Errorf("read avatar: %w", err)
				}

				in.Avatar = &api.EditAvatarDTO{
					Base64:   base64.StdEncoding.EncodeToString(raw),
					Filename: filepath.Base(avatarPath),
				}
			}

			return reportJSON(a.cl.Users.UpdateUser(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "имя")
	cmd.Flags().StringVar(&username, "username", "", "никнейм")
	cmd.Flags().StringVar(&birthday, "birthday", "", "дата рождения (YYYY-MM-DD)")
	cmd.Flags().StringVar(&city, "city", "", "город")
	cmd.Flags().StringVar(&instagram, "instagram", "", "instagram")
	cmd.Flags().StringVar(&vk, "vk", "", "vk")
	cmd.Flags().StringVar(&status, "status", "", "статус")
	cmd.Flags().StringVar(&avatarPath, "avatar", "", "путь к файлу аватара")

	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Завершить сессию локально",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.cl.Users.Logout(cmd.Context())
		},
	}
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Есть ли сохранённая сессия",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.cl.Auth.HasSession() {
				fmt.Println("session: active")
				return nil
			}

			fmt.Println("session: none")
			return nil
		},
	}
}

// requireSession — быстрая локальная проверка перед авторизованной командой.
func requireSession(a *app) error {
	if !a.cl.Auth.HasSession() {
		return fmt.Errorf("no active session: run `mango verify` or `mango register` first")
	}

	return nil
}

// flagValue возвращает указатель на значение флага, только если флаг задан
// явно: частичное обновление не должно отправлять пустые поля.
func flagValue(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}

	return &value
}

func report(res result.Result[result.Unit]) error {
	return reportWith(res, func(result.Unit) any {
		return map[string]string{"status": "ok"}
	})
}

func reportJSON[T any](res result.Result[T]) error {
	return reportWith(res, func(v T) any { return v })
}

func reportWith[T any](res result.Result[T], view func(T) any) error {
	var runErr error

	res.Fold(
		func(v T) {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(view(v))
		},
		func(err *apierr.Error) {
			runErr = err
			fmt.Fprintln(os.Stderr, "error:", err.Error())
		},
	)

	return runErr
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
