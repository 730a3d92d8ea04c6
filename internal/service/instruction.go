package service

import (
	"fmt"

	"ean-extractor/internal/models"
)

const instructionVersion = "2"

const instructionHeader = `Sei un estrattore di dati professionale. Guarda questo documento.
Contiene codici EAN (codici a barre) e le relative quantità.

ISTRUZIONI TASSATIVE:
1. Estrai tutte le coppie: Codice EAN e Quantità.
2. Scrivi una coppia per riga usando il separatore | (es: 8058664165889|4.00)
3. Correggi eventuali errori visivi (es. la stanghetta del cursore letta come '1' all'inizio del codice).
`

const fixed13Rule = `4. I codici EAN devono essere lunghi ESATTAMENTE 13 cifre. Se sono più lunghi, taglia l'inizio.
`

const nativeRule = `4. I codici validi sono lunghi 8, 9 oppure 13 cifre: lasciali come sono.
   Se un codice ha 14 o 15 cifre è un errore di lettura: taglia le cifre iniziali in eccesso fino a 13.
`

const instructionFooter = `5. Le quantità devono usare il PUNTO per i decimali (es. 10.00). Se la quantità è un numero intero (es. 4) scrivi 4.00.
6. RESTITUISCI SOLO LA LISTA, nessuna frase introduttiva e nessun commento finale.`

// InstructionFor returns the fixed instruction for a code-length policy.
func InstructionFor(policy models.CodePolicy) (models.Instruction, error) {
	var rule string
	switch policy {
	case models.CodePolicyFixed13:
		rule = fixed13Rule
	case models.CodePolicyNative:
		rule = nativeRule
	default:
		return models.Instruction{}, fmt.Errorf("unknown code policy %q", policy)
	}

	return models.Instruction{
		Version: instructionVersion + "-" + string(policy),
		Policy:  policy,
		Text:    instructionHeader + rule + instructionFooter,
	}, nil
}
