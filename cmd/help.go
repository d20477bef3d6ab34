package main

import "io"

// showHelp prints usage information for the batch tool.
func showHelp(w io.Writer) {
	_, _ = io.WriteString(w, `RAPM batch pipeline
===================

Segments play-by-play into possessions, combines them into stint tables and
fits regularized adjusted plus-minus ratings.

Usage:
  rapm <command> [options]

Commands:
  possessions   segment every scheduled game into a possession table
  combine       concatenate the possessions of the scheduled games into stints
  fit           fit ratings per season window, season range or date range
  counts        count offensive and defensive possessions per player
  compare       join standard and luck-adjusted rating tables
  help          show this message

Configuration is read from defaults, the YAML file named by RAPM_CONFIG and
RAPM_* environment variables, in that order. Set RAPM_METRICS_ADDR to serve
/healthz, /status and /metrics while a command runs.

Examples:
  # Segment and combine one season
  rapm possessions -season 2018-19
  rapm combine -season 2018-19

  # Two-season windows with player names and a workbook
  rapm fit -window 2 -roster data/players.csv -xlsx data/ratings.xlsx

  # Luck-adjusted comparison
  RAPM_SCORING_MODE=luck_adjusted RAPM_DATA_DIR=data-la rapm possessions
  rapm compare -basic data/ratings/2018-19.csv -adjusted data-la/ratings/2018-19.csv
`)
}
