package config

import "github.com/seaguntech/template-init/internal/rewrite"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"sentinel_path":     DefaultSentinelPath(),
		"manifest_name":     "package.json",
		"contact_file":      "SECURITY.md",
		"workspace_folders": []string{"apps", "packages", "configs"},
		"workspace_file":    "pnpm-workspace.yaml",
		// fallback: identity of the stock template, used when detection finds nothing.
		"fallback": map[string]interface{}{
			"root_name": "seaguntech-monorepo-template",
			"scope":     "seaguntech",
			"owner":     "seaguntech",
			"repo":      "seaguntech-monorepo-template",
			"email":     "oss@example.com",
		},
		"scan": map[string]interface{}{
			"exclude_dirs": []string{
				".git",
				"node_modules",
				".next",
				".turbo",
				"dist",
				"build",
				"coverage",
				".pnpm-store",
				".agents",
				".opencode",
				".claude",
				".cursor",
			},
			"exclude_files": []string{"pnpm-lock.yaml"},
			// .husky/_ is generated by the git-hooks helper.
			"exclude_paths": []string{".husky/_", "scripts/init-template.mjs"},
			"text_extensions": []string{
				".json", ".md", ".ts", ".tsx", ".js", ".mjs", ".cjs",
				".yml", ".yaml", ".css", ".txt",
			},
		},
		// phrases run in order; a later phrase only sees what earlier ones left.
		"phrases": []map[string]interface{}{
			{"from": "Seaguntech Monorepo Template", "to": rewrite.DisplayNamePlaceholder},
			{"from": "Seaguntech Monorepo Starter", "to": rewrite.DisplayNamePlaceholder + " Starter"},
			{"from": "Seaguntech monorepo", "to": rewrite.DisplayNamePlaceholder + " monorepo"},
			{"from": "This Seaguntech monorepo template provides", "to": "This " + rewrite.DisplayNamePlaceholder + " template provides"},
		},
		"max_file_size": 1024 * 1024,
		"summary_limit": 80,
		"next_steps": []string{
			"pnpm install",
			"pnpm lint && pnpm check-types && pnpm build",
		},
	}
}
