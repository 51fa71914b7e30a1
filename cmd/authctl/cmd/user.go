package cmd

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/himuexe/Utsavia/domain"
	"github.com/himuexe/Utsavia/internal/auth"
	"github.com/himuexe/Utsavia/mongodb"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create EMAIL",
	Short: "Create a password account",
	Long:  "Creates a user with the given email. The password is read from the terminal, never from arguments.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		email := args[0]
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = email[:strings.IndexByte(email+"@", '@')]
		}

		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Print("Confirm password: ")
		byteConfirm, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password confirmation: %w", err)
		}
		if string(bytePassword) != string(byteConfirm) {
			return fmt.Errorf("passwords do not match")
		}
		if len(bytePassword) < 6 {
			return fmt.Errorf("password must be at least 6 characters")
		}

		if err := connectMongo(ctx); err != nil {
			return err
		}
		defer mongodb.CloseMongoDB(ctx)

		users, err := mongodb.NewUserRepository(ctx, mongodb.GetDB())
		if err != nil {
			return err
		}

		hasher := auth.NewBcryptPasswordHasher(bcrypt.DefaultCost)
		hash, err := hasher.Hash(string(bytePassword))
		if err != nil {
			return err
		}

		user := &domain.User{Email: email, PasswordHash: hash, Name: name}
		if err := users.CreateUser(ctx, user); err != nil {
			return err
		}

		fmt.Printf("Created user %s (%s)\n", user.ID, user.Email)
		return nil
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get EMAIL",
	Short: "Show a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := connectMongo(ctx); err != nil {
			return err
		}
		defer mongodb.CloseMongoDB(ctx)

		users, err := mongodb.NewUserRepository(ctx, mongodb.GetDB())
		if err != nil {
			return err
		}

		user, err := users.GetUserByEmail(ctx, args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%s\n", user.ID)
		fmt.Fprintf(w, "Email\t%s\n", user.Email)
		fmt.Fprintf(w, "Name\t%s\n", user.Name)
		fmt.Fprintf(w, "Password\t%v\n", user.HasPassword())
		fmt.Fprintf(w, "Google linked\t%v\n", user.IsLinked())
		fmt.Fprintf(w, "Created\t%s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
		if user.LastLoginAt != nil {
			fmt.Fprintf(w, "Last login\t%s\n", user.LastLoginAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := connectMongo(ctx); err != nil {
			return err
		}
		defer mongodb.CloseMongoDB(ctx)

		limit, _ := cmd.Flags().GetInt64("limit")
		coll := mongodb.GetDB().Collection(mongodb.UsersCollection)

		cursor, err := coll.Find(ctx, bson.M{})
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tPASSWORD\tGOOGLE")
		var count int64
		for cursor.Next(ctx) {
			if limit > 0 && count >= limit {
				break
			}
			var user domain.User
			if err := cursor.Decode(&user); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n",
				user.ID, user.Email, user.Name, user.HasPassword(), user.IsLinked())
			count++
		}
		if err := cursor.Err(); err != nil {
			return err
		}
		return w.Flush()
	},
}

func init() {
	userCreateCmd.Flags().String("name", "", "display name (defaults to the email's local part)")
	userListCmd.Flags().Int64("limit", 0, "maximum number of users to list (0 for all)")

	userCmd.AddCommand(userCreateCmd, userGetCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}
