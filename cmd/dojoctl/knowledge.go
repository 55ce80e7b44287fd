package main

import (
	"fmt"
	"strings"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/mapper"
	"sales-assist-bff/pkg/analysis"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func nuggetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nuggets",
		Short: "Manage knowledge nuggets",
		Long:  `List, add and delete the knowledge nuggets used to ground suggestions.`,
	}

	cmd.AddCommand(nuggetsListCmd())
	cmd.AddCommand(nuggetsAddCmd())
	cmd.AddCommand(nuggetsDeleteCmd())

	return cmd
}

func nuggetsListCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge nuggets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			list, err := newClient().ListNuggets(ctx, language)
			if err != nil {
				return err
			}

			nuggets := mapper.NewKnowledgeMapper().NuggetsToEntities(list)
			if len(nuggets) == 0 {
				color.Yellow("No nuggets for language %q", language)
				return nil
			}
			for _, n := range nuggets {
				color.New(color.FgCyan, color.Bold).Printf("%s ", n.Id)
				fmt.Println(n.Title)
				fmt.Printf("  %s\n", n.Content)
				if n.Keywords != "" {
					color.New(color.Faint).Printf("  keywords: %s\n", n.Keywords)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", constant.LanguagePolish, "nugget language (pl, en)")
	return cmd
}

func nuggetsAddCmd() *cobra.Command {
	var req analysis.AddNuggetRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a knowledge nugget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if err := newClient().AddNugget(ctx, req); err != nil {
				return err
			}
			color.Green("Nugget %q added", req.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "nugget title")
	cmd.Flags().StringVar(&req.Content, "content", "", "nugget content")
	cmd.Flags().StringVar(&req.Keywords, "keywords", "", "comma separated keywords")
	cmd.Flags().StringVarP(&req.Language, "language", "l", constant.LanguagePolish, "nugget language (pl, en)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func nuggetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a knowledge nugget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if err := newClient().DeleteNugget(ctx, args[0]); err != nil {
				return err
			}
			color.Green("Nugget %s deleted", args[0])
			return nil
		},
	}
}

func standardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standards",
		Short: "Manage golden standards",
		Long:  `List and create the reference answers the analysis service learns from.`,
	}

	cmd.AddCommand(standardsListCmd())
	cmd.AddCommand(standardsAddCmd())

	return cmd
}

func standardsListCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List golden standards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			list, err := newClient().ListGoldenStandards(ctx, language)
			if err != nil {
				return err
			}

			standards := mapper.NewKnowledgeMapper().GoldenStandardsToEntities(list)
			if len(standards) == 0 {
				color.Yellow("No golden standards for language %q", language)
				return nil
			}
			for _, s := range standards {
				color.New(color.FgCyan, color.Bold).Printf("[%s] ", s.Category)
				fmt.Println(s.TriggerContext)
				fmt.Printf("  -> %s\n", s.GoldenResponse)
				if len(s.Tags) > 0 {
					color.New(color.Faint).Printf("  tags: %s\n", strings.Join(s.Tags, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", constant.LanguagePolish, "standard language (pl, en)")
	return cmd
}

func standardsAddCmd() *cobra.Command {
	var req analysis.CreateGoldenStandardRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a golden standard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if err := newClient().CreateGoldenStandard(ctx, req); err != nil {
				return err
			}
			color.Green("Golden standard created")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.TriggerContext, "trigger", "", "client statement that triggers the standard")
	cmd.Flags().StringVar(&req.GoldenResponse, "response", "", "reference answer")
	cmd.Flags().StringVar(&req.Category, "category", "general", "standard category")
	cmd.Flags().StringVarP(&req.Language, "language", "l", constant.LanguagePolish, "standard language (pl, en)")
	_ = cmd.MarkFlagRequired("trigger")
	_ = cmd.MarkFlagRequired("response")
	return cmd
}
