// Package printing turns invoices into PDF documents: InvoiceTemplate lays
// an invoice out as HTML and ChromedpRenderer prints that HTML through a
// headless Chrome.
package printing
