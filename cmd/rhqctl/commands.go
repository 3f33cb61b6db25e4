package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rhq-project/rhq-coregui/internal/dto"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var (
	loginUser     string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print the session token",
	Long: `Log in and print the session token. Export it as RHQ_SESSION to use it
with the other commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("RHQ_PASSWORD")
		}

		ctx, cancel := callContext()
		defer cancel()

		var resp dto.LoginResponse
		err := client.Invoke(ctx, "SubjectService", "login",
			dto.LoginRequest{Username: loginUser, Password: password}, &resp)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}
		fmt.Println(resp.SessionID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := callContext()
		defer cancel()
		return client.Invoke(ctx, "SubjectService", "logout", nil, nil)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the subject of the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := callContext()
		defer cancel()

		var subject dto.SubjectResponse
		if err := client.Invoke(ctx, "SubjectService", "getSessionSubject", nil, &subject); err != nil {
			return err
		}
		if jsonOutput {
			printJSON(subject)
			return nil
		}
		printSubject(subject)
		return nil
	},
}

var callCmd = &cobra.Command{
	Use:   "call SERVICE METHOD [PARAMS_JSON]",
	Short: "Invoke any service method with JSON parameters",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params any
		if len(args) == 3 {
			if !json.Valid([]byte(args[2])) {
				return fmt.Errorf("parameters are not valid JSON")
			}
			params = json.RawMessage(args[2])
		}

		ctx, cancel := callContext()
		defer cancel()

		var result json.RawMessage
		if err := client.Invoke(ctx, args[0], args[1], params, &result); err != nil {
			return err
		}
		printJSON(result)
		return nil
	},
}

// finders maps the short entity names of the find command to their
// criteria query methods.
var finders = map[string][2]string{
	"subjects":          {"SubjectService", "findSubjectsByCriteria"},
	"roles":             {"RoleService", "findRolesByCriteria"},
	"resources":         {"ResourceService", "findResourcesByCriteria"},
	"resource-types":    {"ResourceTypeService", "findResourceTypesByCriteria"},
	"groups":            {"ResourceGroupService", "findResourceGroupsByCriteria"},
	"agents":            {"AgentService", "findAgentsByCriteria"},
	"availability":      {"AvailabilityService", "findAvailabilityByCriteria"},
	"alert-definitions": {"AlertDefinitionService", "findAlertDefinitionsByCriteria"},
	"alerts":            {"AlertService", "findAlertsByCriteria"},
	"operations":        {"OperationService", "findOperationHistoriesByCriteria"},
	"events":            {"EventService", "findEventsByCriteria"},
	"plugins":           {"PluginService", "findPluginsByCriteria"},
}

var (
	findFilters       []string
	findFetch         []string
	findSort          []string
	findPage          int
	findSize          int
	findStrict        bool
	findCaseSensitive bool
	findAny           bool
	findRestriction   string
)

var findCmd = &cobra.Command{
	Use:   "find ENTITY",
	Short: "Query entities by criteria",
	Long: `Query entities by criteria. ENTITY is one of:
  ` + strings.Join(finderNames(), ", ") + `

Filters are name=value pairs; a value with commas is sent as a list.
Sort fields take an optional :asc or :desc suffix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, ok := finders[args[0]]
		if !ok {
			return fmt.Errorf("unknown entity %q", args[0])
		}

		req, err := buildCriteria()
		if err != nil {
			return err
		}

		ctx, cancel := callContext()
		defer cancel()

		var page dto.PageListResponse[map[string]any]
		if err := client.Invoke(ctx, target[0], target[1], dto.FindRequest{Criteria: *req}, &page); err != nil {
			return err
		}
		if jsonOutput {
			printJSON(page)
			return nil
		}
		printPage(page)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "rhqadmin", "subject name")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (defaults to $RHQ_PASSWORD)")

	findCmd.Flags().StringArrayVarP(&findFilters, "filter", "f", nil, "filter as name=value (repeatable)")
	findCmd.Flags().StringSliceVar(&findFetch, "fetch", nil, "associations to fetch")
	findCmd.Flags().StringArrayVarP(&findSort, "sort", "s", nil, "sort field, optionally field:desc (repeatable)")
	findCmd.Flags().IntVar(&findPage, "page", 0, "page number")
	findCmd.Flags().IntVar(&findSize, "size", 0, "page size (server default when 0)")
	findCmd.Flags().BoolVar(&findStrict, "strict", false, "match text filters exactly")
	findCmd.Flags().BoolVar(&findCaseSensitive, "case-sensitive", false, "match text filters case sensitively")
	findCmd.Flags().BoolVar(&findAny, "any", false, "match any filter instead of all")
	findCmd.Flags().StringVar(&findRestriction, "restriction", "", "COUNT_ONLY or COLLECTION_ONLY")
}

func finderNames() []string {
	names := make([]string, 0, len(finders))
	for name := range finders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildCriteria() (*dto.CriteriaRequest, error) {
	req := &dto.CriteriaRequest{
		Fetch:           findFetch,
		PageNumber:      findPage,
		PageSize:        findSize,
		Strict:          findStrict,
		CaseSensitive:   findCaseSensitive,
		FiltersOptional: findAny,
		Restriction:     strings.ToUpper(findRestriction),
	}

	if len(findFilters) > 0 {
		req.Filters = make(map[string]any, len(findFilters))
	}
	for _, f := range findFilters {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("filter %q is not name=value", f)
		}
		if strings.Contains(value, ",") {
			req.Filters[name] = strings.Split(value, ",")
		} else {
			req.Filters[name] = value
		}
	}

	for _, s := range findSort {
		field, ordering, _ := strings.Cut(s, ":")
		req.Sort = append(req.Sort, dto.SortRequest{Field: field, Ordering: strings.ToUpper(ordering)})
	}
	return req, nil
}

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the methods the server exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := callContext()
		defer cancel()

		var resp dto.MethodsResponse
		if err := client.Invoke(ctx, "SystemService", "listMethods", nil, &resp); err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}
		for _, m := range resp.Methods {
			fmt.Println(m)
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := callContext()
		defer cancel()

		resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Println(resp.GetStatus())
		if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
			os.Exit(1)
		}
		return nil
	},
}
