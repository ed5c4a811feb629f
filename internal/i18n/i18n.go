// Package i18n holds the translated strings of the "functionality" text
// domain and picks the best match for the configured locale.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Domain is the text domain all strings belong to
const Domain = "functionality"

// Message keys. The English text doubles as the key.
const (
	EditFunctions      = "Edit Functions"
	EditStyles         = "Edit Styles"
	PluginDescription  = "A site-specific functionality plugin for %s where you can paste your code snippets instead of using the theme's functions.php file"
	CredentialsTitle   = "Connection Information"
	CredentialsPrompt  = "Creating %s needs elevated access to the plugin directory. Enter your password to proceed."
	CredentialsInvalid = "The password was not accepted. Please try again."
	Password           = "Password"
	Proceed            = "Proceed"
)

var supported = []language.Tag{
	language.English,
	language.German,
	language.French,
}

var translations = map[string]map[language.Tag]string{
	EditFunctions: {
		language.German: "Funktionen bearbeiten",
		language.French: "Modifier les fonctions",
	},
	EditStyles: {
		language.German: "Stile bearbeiten",
		language.French: "Modifier les styles",
	},
	PluginDescription: {
		language.German: "Ein seitenspezifisches Funktions-Plugin für %s, in das Sie Ihre Code-Schnipsel einfügen können, statt die functions.php des Themes zu verwenden",
		language.French: "Une extension de fonctionnalités propre au site %s, où vous pouvez coller vos extraits de code au lieu d'utiliser le fichier functions.php du thème",
	},
	CredentialsTitle: {
		language.German: "Verbindungsinformationen",
		language.French: "Informations de connexion",
	},
	CredentialsPrompt: {
		language.German: "Zum Erstellen von %s wird erweiterter Zugriff auf das Plugin-Verzeichnis benötigt. Gib dein Passwort ein, um fortzufahren.",
		language.French: "La création de %s nécessite un accès étendu au dossier des extensions. Saisissez votre mot de passe pour continuer.",
	},
	CredentialsInvalid: {
		language.German: "Das Passwort wurde nicht akzeptiert. Bitte versuche es erneut.",
		language.French: "Le mot de passe n'a pas été accepté. Veuillez réessayer.",
	},
	Password: {
		language.German: "Passwort",
		language.French: "Mot de passe",
	},
	Proceed: {
		language.German: "Fortfahren",
		language.French: "Continuer",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, byTag := range translations {
		_ = b.SetString(language.English, key, key)
		for tag, msg := range byTag {
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}

// Translator renders strings for one locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for locale, such as "de_DE" or "fr". Unknown
// locales fall back to English.
func New(locale string) *Translator {
	matcher := language.NewMatcher(supported)
	_, idx, _ := matcher.Match(language.Make(locale))
	tag := supported[idx]

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// T translates key, formatting it with args.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Language returns the matched language tag
func (t *Translator) Language() language.Tag {
	return t.tag
}
