package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/SaminMaharjan/coughai/screening"
)

var conditionsCmd = &cobra.Command{
	Use:   "conditions",
	Short: "Print the built-in condition rule table",
	Long: `Print every condition the classifier scores, with the threshold
rules and weights that make up its raw score.`,
	Args: cobra.NoArgs,
	RunE: runConditions,
}

func init() {
	rootCmd.AddCommand(conditionsCmd)
}

// ruleView is the serializable projection of one scoring rule.
type ruleView struct {
	Description string  `json:"description" yaml:"description"`
	Weight      float64 `json:"weight" yaml:"weight"`
}

// conditionView is the serializable projection of one condition's rules.
type conditionView struct {
	Condition screening.Condition `json:"condition" yaml:"condition"`
	Rules     []ruleView          `json:"rules" yaml:"rules"`
}

func runConditions(cmd *cobra.Command, args []string) error {
	rules := screening.DefaultRules()

	views := make([]conditionView, 0, len(rules))
	for _, conditionRules := range rules {
		view := conditionView{Condition: conditionRules.Condition}
		for _, rule := range conditionRules.Rules {
			view.Rules = append(view.Rules, ruleView{
				Description: rule.Description,
				Weight:      rule.Weight,
			})
		}
		views = append(views, view)
	}

	switch viper.GetString("output_format") {
	case "json":
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(views)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		for _, view := range views {
			fmt.Printf("%s\n", view.Condition)
			for _, rule := range view.Rules {
				fmt.Printf("  +%.2f  %s\n", rule.Weight, rule.Description)
			}
			fmt.Println()
		}
	}

	return nil
}
