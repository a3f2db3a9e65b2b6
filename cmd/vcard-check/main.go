// Command vcard-check parses vCard files and reports their contents
// and any parse warnings. With -rewrite it re-serializes each parsed
// contact to standard output, exercising the write path.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/contactkit/vcard"
)

func main() {
	rewrite := flag.Bool("rewrite", false, "Re-serialize each parsed contact to standard output")
	compat := flag.Bool("compat-escaping", false, "Omit the comma from the escape set when rewriting")
	fold := flag.Bool("fold", false, "Fold rewritten lines wider than 75 bytes")
	embedRemote := flag.Bool("embed-remote", false, "Fetch and embed photos referenced by http(s) URLs when rewriting")
	prodID := flag.String("prodid", "-//contactkit//vcard-check//EN", "PRODID value for rewritten cards that have none")
	verbose := flag.Bool("v", false, "Log library warnings as they happen")
	flag.Parse()

	if flag.NArg() == 0 {
		logrus.Fatal("no input files; usage: vcard-check [flags] file.vcf ...")
	}

	// accumulated warnings are reported per file below; the live hook
	// is only interesting in verbose mode
	vcard.LogWarning = logrus.Debugf
	if *verbose {
		vcard.LogWarning = logrus.Warnf
	}

	// wrong extensions are fatal before any parsing begins
	for _, name := range flag.Args() {
		if !strings.EqualFold(filepath.Ext(name), ".vcf") {
			logrus.Fatalf("%s: unsupported file type (expected .vcf)", name)
		}
	}

	for _, name := range flag.Args() {
		checkFile(name, *rewrite, *compat, *fold, *embedRemote, *prodID)
	}
}

func checkFile(name string, rewrite, compat, fold, embedRemote bool, prodID string) {
	f, err := os.Open(name)
	if err != nil {
		logrus.Fatal(err)
	}
	defer f.Close()

	contact := vcard.NewContact()
	r := vcard.NewReader(f)
	if err := r.ReadAll(contact); err != nil {
		logrus.Fatalf("%s: %v", name, err)
	}

	log := logrus.WithField("file", name)
	log.WithFields(logrus.Fields{
		"formatted_name": contact.FormattedName,
		"addresses":      len(contact.DeliveryAddresses),
		"phones":         len(contact.Phones),
		"emails":         len(contact.EmailAddresses),
		"websites":       len(contact.Websites),
		"photos":         len(contact.Photos),
		"notes":          len(contact.Notes),
	}).Info("parsed contact")
	for _, warning := range r.Warnings() {
		log.Warn(warning)
	}

	if rewrite {
		w := vcard.NewWriter(
			vcard.WithCompatibilityEscaping(compat),
			vcard.WithLineFolding(fold),
			vcard.WithEmbedRemoteImages(embedRemote),
			vcard.WithProductID(prodID),
		)
		if err := w.WriteTo(contact, os.Stdout); err != nil {
			log.Fatalf("rewrite failed: %v", err)
		}
	}
}
