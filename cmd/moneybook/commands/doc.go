// Package commands defines the moneybook CLI.
//
// Commands
//
//   - register    Create a user
//   - balance     Print the current balance
//   - income      Record an income
//   - expense     Record an expense and warn about budgets
//   - budget      Set the budget for a category
//   - transfer    Move money to another user
//   - export      Write the wallet to CSV files
//   - import      Replace the wallet with the content of CSV files
//   - report      Print totals, optionally for chosen categories
//   - categories  List the categories in use
//
// Every command except register logs in with --login and --password, runs,
// and logs out again, which saves the wallet.
package commands
