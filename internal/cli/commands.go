package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gotransfer/internal/credential"
	"gotransfer/internal/domain"
	"gotransfer/internal/pkg/database"
	"gotransfer/internal/pkg/token"
	"gotransfer/internal/repository/branchrepo"
	"gotransfer/internal/repository/credentialrepo"
	"gotransfer/internal/repository/sliprepo"
	"gotransfer/internal/slipcode"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações pendentes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db, a.driver()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrações aplicadas")
			return nil
		},
	}
}

func (a *app) tokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{Use: "token", Short: "Codifica e decodifica o texto do QR code."}

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Gera o texto do QR code de uma guia.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			transferID, _ := cmd.Flags().GetString("transfer")
			slipID, _ := cmd.Flags().GetString("slip")

			text, err := slipcode.Encode(domain.SlipRef{TransferID: transferID, SlipID: slipID})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	encodeCmd.Flags().String("transfer", "", "ID da transferência")
	encodeCmd.Flags().String("slip", "", "ID da guia")

	decodeCmd := &cobra.Command{
		Use:   "decode [texto]",
		Short: "Interpreta o texto lido do QR code (argumento ou stdin).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), slipcode.MaxTokenLength*4))
				if err != nil {
					return err
				}
				text = string(raw)
			}

			ref, err := slipcode.Decode(text)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ref)
		},
	}

	tokenCmd.AddCommand(encodeCmd, decodeCmd)
	return tokenCmd
}

func (a *app) pinCmd() *cobra.Command {
	pinCmd := &cobra.Command{Use: "pin", Short: "Utilitários de PIN."}

	hashCmd := &cobra.Command{
		Use:   "hash <pin>",
		Short: "Gera o hash bcrypt de um PIN de 6 dígitos.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, _ := cmd.Flags().GetInt("cost")
			hash, err := credential.HashPIN(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	hashCmd.Flags().Int("cost", 0, "custo do bcrypt (0 = padrão)")

	pinCmd.AddCommand(hashCmd)
	return pinCmd
}

func (a *app) branchCmd() *cobra.Command {
	branchCmd := &cobra.Command{Use: "branch", Short: "Cadastro de filiais."}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Cadastra uma filial.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			name, _ := cmd.Flags().GetString("name")

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := branchrepo.NewBranchRepository(db, dbTimeout, a.logger(cmd))
			branch, err := repo.CreateBranch(cmd.Context(), domain.Branch{ID: id, Name: name})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), branch)
		},
	}
	createCmd.Flags().String("id", "", "ID da filial (vazio = gera UUID)")
	createCmd.Flags().String("name", "", "nome da filial")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista as filiais.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			branches, err := branchrepo.NewBranchRepository(db, dbTimeout, a.logger(cmd)).GetAllBranches(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), branches)
		},
	}

	branchCmd.AddCommand(createCmd, listCmd)
	return branchCmd
}

func (a *app) staffCmd() *cobra.Command {
	staffCmd := &cobra.Command{Use: "staff", Short: "Credenciais dos funcionários."}

	enrolCmd := &cobra.Command{
		Use:   "enrol",
		Short: "Cadastra o PIN de um funcionário em uma filial.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			branchID, _ := cmd.Flags().GetString("branch")
			staffID, _ := cmd.Flags().GetString("staff")
			pin, _ := cmd.Flags().GetString("pin")
			cost, _ := cmd.Flags().GetInt("cost")

			hash, err := credential.HashPIN(pin, cost)
			if err != nil {
				return err
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := credentialrepo.NewCredentialRepository(db, dbTimeout, a.logger(cmd))
			cred, err := repo.Save(cmd.Context(), domain.StaffCredential{BranchID: branchID, StaffID: staffID, PINHash: hash})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "funcionário %s cadastrado na filial %s\n", cred.StaffID, cred.BranchID)
			return nil
		},
	}
	enrolCmd.Flags().String("branch", "", "ID da filial")
	enrolCmd.Flags().String("staff", "", "ID do funcionário")
	enrolCmd.Flags().String("pin", "", "PIN de 6 dígitos")
	enrolCmd.Flags().Int("cost", 0, "custo do bcrypt (0 = padrão)")

	staffCmd.AddCommand(enrolCmd)
	return staffCmd
}

func (a *app) slipCmd() *cobra.Command {
	slipCmd := &cobra.Command{Use: "slip", Short: "Guias de transferência."}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Emite uma guia em trânsito e imprime o texto do QR code.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			slip := domain.TransferSlip{}
			slip.ID, _ = f.GetString("id")
			slip.TransferID, _ = f.GetString("transfer")
			slip.ProductID, _ = f.GetString("product")
			slip.ProductName, _ = f.GetString("product-name")
			slip.Quantity, _ = f.GetInt("qty")
			slip.FromBranch, _ = f.GetString("from")
			slip.ToBranch, _ = f.GetString("to")
			slip.Notes, _ = f.GetString("notes")

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			created, err := sliprepo.NewSlipRepository(db, dbTimeout, a.logger(cmd)).Create(cmd.Context(), slip)
			if err != nil {
				return err
			}
			text, err := slipcode.Encode(slipcode.NewRef(created))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "guia: %s\n", created.ID)
			fmt.Fprintf(out, "qr: %s\n", text)
			return nil
		},
	}
	f := createCmd.Flags()
	f.String("id", "", "ID da guia (vazio = gera UUID)")
	f.String("transfer", "", "ID da transferência")
	f.String("product", "", "ID do produto")
	f.String("product-name", "", "nome do produto")
	f.Int("qty", 0, "quantidade")
	f.String("from", "", "filial de origem")
	f.String("to", "", "filial de destino")
	f.String("notes", "", "observações")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Exibe uma guia.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			slip, err := sliprepo.NewSlipRepository(db, dbTimeout, a.logger(cmd)).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), slip)
		},
	}

	slipCmd.AddCommand(createCmd, showCmd)
	return slipCmd
}

func (a *app) operatorCmd() *cobra.Command {
	operatorCmd := &cobra.Command{Use: "operator", Short: "Tokens de operador."}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Emite um JWT de operador para testes e integração.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			role, _ := cmd.Flags().GetString("role")
			branchID, _ := cmd.Flags().GetString("branch")
			expiry, _ := cmd.Flags().GetDuration("expiry")

			switch domain.OperatorRole(role) {
			case domain.RoleStaff, domain.RoleLogistics, domain.RoleAdmin:
			default:
				return fmt.Errorf("papel inválido: %q", role)
			}

			secret := a.v.GetString("JWT_SECRET_KEY")
			if strings.TrimSpace(secret) == "" {
				return fmt.Errorf("JWT_SECRET_KEY não definido")
			}

			signed, err := token.NewService(secret, expiry).GenerateToken(id, role, branchID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	tokenCmd.Flags().String("id", "", "ID do operador")
	tokenCmd.Flags().String("role", string(domain.RoleStaff), "papel (staff | logistics | admin)")
	tokenCmd.Flags().String("branch", "", "filial do operador")
	tokenCmd.Flags().Duration("expiry", time.Hour, "validade do token")

	operatorCmd.AddCommand(tokenCmd)
	return operatorCmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
