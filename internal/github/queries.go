package github

// GraphQL documents for the GitHub Projects v2 API.

const queryProject = `
query Project($login: String!, $number: Int!) {
  organization(login: $login) {
    projectV2(number: $number) {
      id
      title
      url
      number
      owner {
        ... on Organization {
          login
        }
      }
    }
  }
}`

const queryFields = `
query Fields($projectId: ID!) {
  node(id: $projectId) {
    ... on ProjectV2 {
      fields(first: 50) {
        nodes {
          ... on ProjectV2Field {
            id
            name
            dataType
          }
          ... on ProjectV2IterationField {
            id
            name
            dataType
          }
          ... on ProjectV2SingleSelectField {
            id
            name
            dataType
            options {
              id
              name
            }
          }
        }
      }
    }
  }
}`

// queryItems pages through the board in position order so that the
// position cache reflects the true relative order.
const queryItems = `
query Items($login: String!, $number: Int!, $cursor: String) {
  organization(login: $login) {
    projectV2(number: $number) {
      items(first: 100, after: $cursor, orderBy: {field: POSITION, direction: ASC}) {
        pageInfo {
          hasNextPage
          endCursor
        }
        nodes {
          id
          content {
            ... on Issue {
              id
              title
              url
              number
              repository {
                name
                archivedAt
                owner {
                  login
                }
              }
            }
            ... on PullRequest {
              id
              title
              url
              number
              repository {
                name
                archivedAt
                owner {
                  login
                }
              }
            }
          }
          fieldValues(first: 100) {
            nodes {
              ... on ProjectV2ItemFieldValueCommon {
                field {
                  ... on ProjectV2FieldCommon {
                    id
                  }
                }
              }
              ... on ProjectV2ItemFieldSingleSelectValue {
                optionId
              }
              ... on ProjectV2ItemFieldTextValue {
                text
              }
              ... on ProjectV2ItemFieldNumberValue {
                number
              }
              ... on ProjectV2ItemFieldPullRequestValue {
                pullRequests(first: 10) {
                  nodes {
                    url
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const queryIssueOrPullRequest = `
query Content($owner: String!, $repo: String!, $number: Int!) {
  repository(name: $repo, owner: $owner) {
    issueOrPullRequest(number: $number) {
      ... on Issue {
        id
        title
        url
        number
        body
        repository {
          name
          archivedAt
          owner {
            login
          }
        }
      }
      ... on PullRequest {
        id
        title
        url
        number
        body
        repository {
          name
          archivedAt
          owner {
            login
          }
        }
      }
    }
  }
}`

const mutationAddItem = `
mutation AddItem($projectId: ID!, $contentId: ID!) {
  addProjectV2ItemById(input: {projectId: $projectId, contentId: $contentId}) {
    item {
      id
      fieldValues(first: 100) {
        nodes {
          ... on ProjectV2ItemFieldValueCommon {
            field {
              ... on ProjectV2FieldCommon {
                id
              }
            }
          }
          ... on ProjectV2ItemFieldSingleSelectValue {
            optionId
          }
          ... on ProjectV2ItemFieldTextValue {
            text
          }
          ... on ProjectV2ItemFieldNumberValue {
            number
          }
        }
      }
    }
  }
}`

const mutationDeleteItem = `
mutation DeleteItem($projectId: ID!, $itemId: ID!) {
  deleteProjectV2Item(input: {projectId: $projectId, itemId: $itemId}) {
    deletedItemId
  }
}`

const mutationSetText = `
mutation SetText($projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: String!) {
  updateProjectV2ItemFieldValue(
    input: {projectId: $projectId, itemId: $itemId, fieldId: $fieldId, value: {text: $value}}
  ) {
    projectV2Item {
      id
    }
  }
}`

const mutationSetNumber = `
mutation SetNumber($projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: Float!) {
  updateProjectV2ItemFieldValue(
    input: {projectId: $projectId, itemId: $itemId, fieldId: $fieldId, value: {number: $value}}
  ) {
    projectV2Item {
      id
    }
  }
}`

const mutationSetOption = `
mutation SetOption($projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: String!) {
  updateProjectV2ItemFieldValue(
    input: {projectId: $projectId, itemId: $itemId, fieldId: $fieldId, value: {singleSelectOptionId: $value}}
  ) {
    projectV2Item {
      id
    }
  }
}`

const mutationClearValue = `
mutation ClearValue($projectId: ID!, $itemId: ID!, $fieldId: ID!) {
  clearProjectV2ItemFieldValue(
    input: {projectId: $projectId, itemId: $itemId, fieldId: $fieldId}
  ) {
    projectV2Item {
      id
    }
  }
}`

const mutationSetPosition = `
mutation SetPosition($projectId: ID!, $itemId: ID!, $afterId: ID) {
  updateProjectV2ItemPosition(
    input: {projectId: $projectId, itemId: $itemId, afterId: $afterId}
  ) {
    items(first: 1) {
      nodes {
        id
      }
    }
  }
}`

const mutationCreateField = `
mutation CreateField($projectId: ID!, $name: String!, $options: [ProjectV2SingleSelectFieldOptionInput!]) {
  createProjectV2Field(
    input: {projectId: $projectId, dataType: SINGLE_SELECT, name: $name, singleSelectOptions: $options}
  ) {
    projectV2Field {
      ... on ProjectV2SingleSelectField {
        id
        name
        dataType
        options {
          id
          name
        }
      }
    }
  }
}`

const mutationUpdateIssueBody = `
mutation UpdateIssueBody($id: ID!, $body: String!) {
  updateIssue(input: {id: $id, body: $body}) {
    issue {
      id
    }
  }
}`

const mutationUpdatePullBody = `
mutation UpdatePullBody($id: ID!, $body: String!) {
  updatePullRequest(input: {pullRequestId: $id, body: $body}) {
    pullRequest {
      id
    }
  }
}`
