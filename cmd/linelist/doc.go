// Command linelist browses and edits a project's sample metadata linelist.
//
// With no subcommand (or "tui") it opens the interactive grid. The other
// subcommands run one operation against the metadata service and exit:
//
//	linelist entries [--json] [--all] [--fields f1,f2]
//	linelist set <sample> <field> <value> [--label L]
//	linelist remove-field <field>
//	linelist refresh
//	linelist project show [--json]
//	linelist project set <label|description|organism> <value>
//	linelist members remove <userId> [--force]
//
// Connection settings come from ~/.config/linelist/config.toml and can be
// overridden with --api-url and --project. Activity is logged as JSON to
// <log_dir>/linelist.log.
package main
